package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "rentals.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "rentals.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "rentals.db")
				d, err := Open(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := Open(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestPragmas(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	var timeout int
	if err := d.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if timeout != busyTimeoutMillis {
		t.Errorf("busy_timeout = %d, want %d", timeout, busyTimeoutMillis)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "locations table exists",
			table: "locations",
			cols:  []string{"id", "address", "city", "state", "country", "postal_code", "coordinates"},
		},
		{
			name:  "properties table exists",
			table: "properties",
			cols:  []string{"id", "name", "description", "price_per_month", "beds", "baths", "square_feet", "property_type", "location_id", "created_at"},
		},
		{
			name:  "tenants table exists",
			table: "tenants",
			cols:  []string{"id", "cognito_id", "name", "email", "phone_number", "created_at", "updated_at"},
		},
		{
			name:  "tenant_favorites table exists",
			table: "tenant_favorites",
			cols:  []string{"tenant_id", "property_id", "created_at"},
		},
		{
			name:  "tenant_residences table exists",
			table: "tenant_residences",
			cols:  []string{"tenant_id", "property_id"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestFavoritePairIsUnique(t *testing.T) {
	d := openTestDB(t)
	tenantID, propID := insertFixtures(t, d)

	if _, err := d.Exec(`INSERT INTO tenant_favorites (tenant_id, property_id) VALUES (?, ?)`, tenantID, propID); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO tenant_favorites (tenant_id, property_id) VALUES (?, ?)`, tenantID, propID); err == nil {
		t.Fatal("expected primary key violation on duplicate favorite")
	}
}

func TestFavoriteRequiresExistingProperty(t *testing.T) {
	d := openTestDB(t)
	tenantID, _ := insertFixtures(t, d)

	if _, err := d.Exec(`INSERT INTO tenant_favorites (tenant_id, property_id) VALUES (?, ?)`, tenantID, 9999); err == nil {
		t.Fatal("expected foreign key violation for missing property")
	}
}

func TestDeleteTenantKeepsProperties(t *testing.T) {
	d := openTestDB(t)
	tenantID, propID := insertFixtures(t, d)

	if _, err := d.Exec(`INSERT INTO tenant_favorites (tenant_id, property_id) VALUES (?, ?)`, tenantID, propID); err != nil {
		t.Fatalf("insert favorite: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO tenant_residences (tenant_id, property_id) VALUES (?, ?)`, tenantID, propID); err != nil {
		t.Fatalf("insert residence: %v", err)
	}

	if _, err := d.Exec(`DELETE FROM tenants WHERE id = ?`, tenantID); err != nil {
		t.Fatalf("delete tenant: %v", err)
	}

	for _, table := range []string{"tenant_favorites", "tenant_residences"} {
		var count int
		if err := d.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE tenant_id = ?`, table), tenantID).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s: expected 0 rows after cascade delete, got %d", table, count)
		}
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM properties WHERE id = ?`, propID).Scan(&count); err != nil {
		t.Fatalf("count properties: %v", err)
	}
	if count != 1 {
		t.Errorf("expected property to survive tenant delete, got %d rows", count)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentals.db")

	// Migrations must be safe to run on every open
	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(p) != "rentals.db" {
		t.Errorf("expected filename rentals.db, got %s", filepath.Base(p))
	}

	dir := filepath.Base(filepath.Dir(p))
	if dir != "rf" {
		t.Errorf("expected directory rf, got %s", dir)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rentals.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

// insertFixtures inserts one tenant and one property and returns their IDs.
func insertFixtures(t *testing.T, d *sql.DB) (tenantID, propertyID int64) {
	t.Helper()
	res, err := d.Exec(`INSERT INTO locations (address, coordinates) VALUES (?, ?)`, "Av. Paulista 1000", "POINT(-46.633 -23.55)")
	if err != nil {
		t.Fatalf("insert location: %v", err)
	}
	locID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("location id: %v", err)
	}

	res, err = d.Exec(`INSERT INTO properties (name, location_id) VALUES (?, ?)`, "Paulista Loft", locID)
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	propertyID, err = res.LastInsertId()
	if err != nil {
		t.Fatalf("property id: %v", err)
	}

	res, err = d.Exec(`INSERT INTO tenants (cognito_id, name, email) VALUES (?, ?, ?)`, "cog-1", "Ana", "ana@example.com")
	if err != nil {
		t.Fatalf("insert tenant: %v", err)
	}
	tenantID, err = res.LastInsertId()
	if err != nil {
		t.Fatalf("tenant id: %v", err)
	}
	return tenantID, propertyID
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}
