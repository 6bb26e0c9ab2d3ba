package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Locations hold their point as well-known text, e.g. POINT(-46.633 -23.55).
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		address     TEXT    NOT NULL,
		city        TEXT    NOT NULL DEFAULT '',
		state       TEXT    NOT NULL DEFAULT '',
		country     TEXT    NOT NULL DEFAULT '',
		postal_code TEXT    NOT NULL DEFAULT '',
		coordinates TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT    NOT NULL,
		description     TEXT    NOT NULL DEFAULT '',
		price_per_month REAL    NOT NULL DEFAULT 0,
		beds            INTEGER NOT NULL DEFAULT 0,
		baths           REAL    NOT NULL DEFAULT 0,
		square_feet     INTEGER NOT NULL DEFAULT 0,
		property_type   TEXT    NOT NULL DEFAULT '',
		location_id     INTEGER NOT NULL UNIQUE REFERENCES locations(id),
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tenants (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		cognito_id   TEXT    NOT NULL UNIQUE,
		name         TEXT    NOT NULL,
		email        TEXT    NOT NULL,
		phone_number TEXT    NOT NULL DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tenant_favorites (
		tenant_id   INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (tenant_id, property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tenant_residences (
		tenant_id   INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		PRIMARY KEY (tenant_id, property_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tenant_residences_property ON tenant_residences(property_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tenant_favorites_property ON tenant_favorites(property_id)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
