package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/evcraddock/rental-finder/internal/property"
)

// Repository persists tenants and their favorite and residence associations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a tenant repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, cognito_id, name, email, phone_number, created_at, updated_at`

func scanTenant(row interface{ Scan(...interface{}) error }) (*Tenant, error) {
	var t Tenant
	if err := row.Scan(&t.ID, &t.CognitoID, &t.Name, &t.Email, &t.PhoneNumber, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Create registers a new tenant and returns it with its generated ID.
func (r *Repository) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	id, err := insertTenant(ctx, r.db, t)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// CreateTx registers a tenant inside tx and returns the new ID.
// The caller commits.
func CreateTx(ctx context.Context, tx *sql.Tx, t *Tenant) (int64, error) {
	return insertTenant(ctx, tx, t)
}

func insertTenant(ctx context.Context, db execer, t *Tenant) (int64, error) {
	res, err := db.ExecContext(ctx,
		"INSERT INTO tenants (cognito_id, name, email, phone_number) VALUES (?, ?, ?, ?)",
		t.CognitoID, t.Name, t.Email, t.PhoneNumber,
	)
	if isConstraintViolation(err) {
		return 0, fmt.Errorf("cognito id %q: %w", t.CognitoID, ErrDuplicateTenant)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting tenant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	return id, nil
}

// GetByID returns a tenant by ID with its favorites loaded.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Tenant, error) {
	query := fmt.Sprintf("SELECT %s FROM tenants WHERE id = ?", selectColumns)
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tenant %d: %w", id, ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant %d: %w", id, err)
	}
	return r.withFavorites(ctx, t)
}

// GetByCognitoID returns a tenant by its external identity with favorites loaded.
func (r *Repository) GetByCognitoID(ctx context.Context, cognitoID string) (*Tenant, error) {
	query := fmt.Sprintf("SELECT %s FROM tenants WHERE cognito_id = ?", selectColumns)
	t, err := scanTenant(r.db.QueryRowContext(ctx, query, cognitoID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tenant %q: %w", cognitoID, ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant %q: %w", cognitoID, err)
	}
	return r.withFavorites(ctx, t)
}

func (r *Repository) withFavorites(ctx context.Context, t *Tenant) (*Tenant, error) {
	favs, err := r.Favorites(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Favorites = favs
	return t, nil
}

// Exists reports whether a tenant with id exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tenants WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking tenant %d: %w", id, err)
	}
	return true, nil
}

// Update applies the non-nil fields of u to tenant id.
func (r *Repository) Update(ctx context.Context, id int64, u Update) (*Tenant, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET
			name = COALESCE(?, name),
			email = COALESCE(?, email),
			phone_number = COALESCE(?, phone_number),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		u.Name, u.Email, u.PhoneNumber, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("tenant %d: %w", id, ErrTenantNotFound)
	}

	return r.GetByID(ctx, id)
}

// Favorites returns the tenant's favorite properties ordered by property ID.
// An unknown tenant has no favorites.
func (r *Repository) Favorites(ctx context.Context, tenantID int64) ([]*property.Property, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM tenant_favorites f
		 JOIN properties p ON p.id = f.property_id
		 WHERE f.tenant_id = ?
		 ORDER BY p.id`,
		property.Columns,
	)
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	favs := []*property.Property{}
	for rows.Next() {
		p, err := property.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favs = append(favs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}

	return favs, nil
}

// Residences returns the properties the tenant occupies, each joined with
// its location, ordered by property ID. Tenant existence is not checked.
func (r *Repository) Residences(ctx context.Context, tenantID int64) ([]Residence, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM tenant_residences tr
		 JOIN properties p ON p.id = tr.property_id
		 JOIN locations l ON l.id = p.location_id
		 WHERE tr.tenant_id = ?
		 ORDER BY p.id`,
		property.JoinedColumns,
	)
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing residences: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	residences := []Residence{}
	for rows.Next() {
		p, loc, err := property.ScanWithLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning residence: %w", err)
		}
		residences = append(residences, Residence{Property: p, Location: loc})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating residences: %w", err)
	}

	return residences, nil
}

// AddFavorite records propertyID as a favorite of tenantID. The pair's
// primary key is the uniqueness guarantee: a concurrent writer that loses
// the race gets ErrAlreadyFavorited.
func (r *Repository) AddFavorite(ctx context.Context, tenantID, propertyID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := AddFavoriteTx(ctx, tx, tenantID, propertyID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing favorite: %w", err)
	}
	return nil
}

// AddFavoriteTx records a favorite inside tx with the same checks and
// errors as AddFavorite. The caller commits.
func AddFavoriteTx(ctx context.Context, tx *sql.Tx, tenantID, propertyID int64) error {
	if err := requireRow(ctx, tx, "SELECT 1 FROM tenants WHERE id = ?", tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("tenant %d: %w", tenantID, ErrTenantNotFound)
		}
		return fmt.Errorf("checking tenant %d: %w", tenantID, err)
	}
	if err := requireRow(ctx, tx, "SELECT 1 FROM properties WHERE id = ?", propertyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("property %d: %w", propertyID, ErrPropertyNotFound)
		}
		return fmt.Errorf("checking property %d: %w", propertyID, err)
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO tenant_favorites (tenant_id, property_id) VALUES (?, ?)",
		tenantID, propertyID,
	)
	if isConstraintViolation(err) {
		return fmt.Errorf("property %d for tenant %d: %w", propertyID, tenantID, ErrAlreadyFavorited)
	}
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}

	return nil
}

// RemoveFavorite deletes the pair if present. Removing an absent pair is a no-op.
func (r *Repository) RemoveFavorite(ctx context.Context, tenantID, propertyID int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM tenant_favorites WHERE tenant_id = ? AND property_id = ?",
		tenantID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	return nil
}

func requireRow(ctx context.Context, tx *sql.Tx, query string, id int64) error {
	var one int
	return tx.QueryRowContext(ctx, query, id).Scan(&one)
}

// isConstraintViolation reports a UNIQUE or PRIMARY KEY failure.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
