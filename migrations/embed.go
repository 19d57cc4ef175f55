// Package migrations embeds the accessory cache schema into the binary.
package migrations

import (
	"embed"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
