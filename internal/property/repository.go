package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a property ID does not resolve to a record.
var ErrNotFound = errors.New("property not found")

// Columns lists the property columns in Scan order, qualified with alias p.
const Columns = `p.id, p.name, p.description, p.price_per_month, p.beds, p.baths, p.square_feet, p.property_type, p.location_id, p.created_at`

// JoinedColumns lists property then location columns in ScanWithLocation order.
// Queries using it must join locations as l.
const JoinedColumns = Columns + `, l.id, l.address, l.city, l.state, l.country, l.postal_code, l.coordinates`

// Repository provides access to properties and their locations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a location and the property that owns it in one transaction
// and returns the saved property.
func (r *Repository) Insert(ctx context.Context, p *Property, loc *Location) (*Property, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := InsertTx(ctx, tx, p, loc)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing property: %w", err)
	}

	return r.GetByID(ctx, id)
}

// InsertTx stores a location and its property inside tx and returns the
// new property ID. The caller commits.
func InsertTx(ctx context.Context, tx *sql.Tx, p *Property, loc *Location) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO locations (address, city, state, country, postal_code, coordinates) VALUES (?, ?, ?, ?, ?, ?)`,
		loc.Address, loc.City, loc.State, loc.Country, loc.PostalCode, loc.Point,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting location: %w", err)
	}
	locID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting location id: %w", err)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO properties (name, description, price_per_month, beds, baths, square_feet, property_type, location_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.PricePerMonth, p.Beds, p.Baths, p.SquareFeet, p.PropertyType, locID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting insert id: %w", err)
	}
	return id, nil
}

// GetByID returns a property by its ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties p WHERE p.id = ?", Columns)
	p, err := Scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}
	return p, nil
}

// GetWithLocation returns a property joined with its location.
func (r *Repository) GetWithLocation(ctx context.Context, id int64) (*Property, *Location, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM properties p JOIN locations l ON l.id = p.location_id WHERE p.id = ?",
		JoinedColumns,
	)
	p, loc, err := ScanWithLocation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying property %d: %w", id, err)
	}
	return p, loc, nil
}

// GetEnriched returns a property with its location point resolved.
func (r *Repository) GetEnriched(ctx context.Context, id int64) (*EnrichedProperty, error) {
	p, loc, err := r.GetWithLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return Enrich(p, loc)
}
