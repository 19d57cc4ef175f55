// Package database provides the SQLite connection behind the accessory cache.
//
// This package manages:
//   - Database connection with WAL mode and a busy timeout
//   - Forward-only schema migrations loaded from an fs.FS
//   - Health checks
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//   - Device credentials are never written to the database
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql and live in
// the top-level migrations package, which registers them at init.
package database
