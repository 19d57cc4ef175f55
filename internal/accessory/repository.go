package accessory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository persists accessories between host restarts.
type Repository interface {
	// List returns every cached accessory of a plugin platform, ordered by
	// display name.
	List(ctx context.Context, pluginName, platformName string) ([]*Accessory, error)

	// Save inserts or replaces an accessory.
	Save(ctx context.Context, pluginName, platformName string, acc *Accessory) error

	// Delete removes an accessory by UUID.
	// Returns ErrAccessoryNotFound if it is not cached.
	Delete(ctx context.Context, uuid string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open, migrated SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns every cached accessory of a plugin platform.
func (r *SQLiteRepository) List(ctx context.Context, pluginName, platformName string) ([]*Accessory, error) {
	query := `
		SELECT uuid, display_name, context, manufacturer, model,
			serial_number, firmware_revision, power_on
		FROM accessories
		WHERE plugin = ? AND platform = ?
		ORDER BY display_name, uuid`

	rows, err := r.db.QueryContext(ctx, query, pluginName, platformName)
	if err != nil {
		return nil, fmt.Errorf("querying accessories: %w", err)
	}
	defer rows.Close()

	var accessories []*Accessory
	for rows.Next() {
		acc, err := scanAccessory(rows)
		if err != nil {
			return nil, err
		}
		accessories = append(accessories, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accessories: %w", err)
	}
	return accessories, nil
}

// Save inserts or replaces an accessory.
func (r *SQLiteRepository) Save(ctx context.Context, pluginName, platformName string, acc *Accessory) error {
	if err := acc.Validate(); err != nil {
		return err
	}

	contextJSON, err := json.Marshal(acc.Context)
	if err != nil {
		return fmt.Errorf("marshalling context: %w", err)
	}

	info := acc.Info()
	powerOn := false
	if p := acc.Power(); p != nil {
		powerOn = p.On.Value()
	}

	query := `
		INSERT INTO accessories (
			uuid, plugin, platform, display_name, context, manufacturer, model,
			serial_number, firmware_revision, power_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			plugin = excluded.plugin,
			platform = excluded.platform,
			display_name = excluded.display_name,
			context = excluded.context,
			manufacturer = excluded.manufacturer,
			model = excluded.model,
			serial_number = excluded.serial_number,
			firmware_revision = excluded.firmware_revision,
			power_on = excluded.power_on,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

	_, err = r.db.ExecContext(ctx, query,
		acc.UUID,
		pluginName,
		platformName,
		acc.DisplayName,
		string(contextJSON),
		info.Manufacturer,
		info.Model,
		info.SerialNumber,
		info.FirmwareRevision,
		boolToInt(powerOn),
	)
	if err != nil {
		return fmt.Errorf("saving accessory %s: %w", acc.UUID, err)
	}
	return nil
}

// Delete removes an accessory by UUID.
func (r *SQLiteRepository) Delete(ctx context.Context, uuid string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM accessories WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("deleting accessory: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccessoryNotFound
	}
	return nil
}

// scanAccessory rebuilds an accessory from a row, including the last known
// power state.
func scanAccessory(rows *sql.Rows) (*Accessory, error) {
	var (
		acc         Accessory
		contextJSON string
		info        Info
		powerOn     int
	)

	if err := rows.Scan(
		&acc.UUID,
		&acc.DisplayName,
		&contextJSON,
		&info.Manufacturer,
		&info.Model,
		&info.SerialNumber,
		&info.FirmwareRevision,
		&powerOn,
	); err != nil {
		return nil, fmt.Errorf("scanning accessory: %w", err)
	}

	if err := json.Unmarshal([]byte(contextJSON), &acc.Context); err != nil {
		return nil, fmt.Errorf("unmarshalling context of %s: %w", acc.UUID, err)
	}
	acc.info = info

	acc.EnsurePowerService(acc.DisplayName).On.Update(powerOn != 0)

	return &acc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
