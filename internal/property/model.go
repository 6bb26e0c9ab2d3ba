// Package property provides the rental property and location models and data access.
package property

import (
	"fmt"
	"time"

	"github.com/evcraddock/rental-finder/internal/geo"
)

// Property is a rental listing. Each property owns exactly one Location.
type Property struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PricePerMonth float64   `json:"price_per_month"`
	Beds          int64     `json:"beds"`
	Baths         float64   `json:"baths"`
	SquareFeet    int64     `json:"square_feet"`
	PropertyType  string    `json:"property_type"`
	LocationID    int64     `json:"location_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Location is a property's address and stored point.
// Point holds the geometry exactly as stored; it is never sent to clients.
type Location struct {
	ID         int64  `json:"id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Point      string `json:"-"`
}

// EnrichedLocation is a Location with its point resolved.
type EnrichedLocation struct {
	Location
	Coordinates geo.Coordinates `json:"coordinates"`
}

// EnrichedProperty is a Property joined with its resolved Location.
type EnrichedProperty struct {
	Property
	Location EnrichedLocation `json:"location"`
}

// Enrich resolves loc's point and attaches it to p.
// A point that does not decode fails the whole record; no zero coordinates
// are ever substituted.
func Enrich(p *Property, loc *Location) (*EnrichedProperty, error) {
	coords, err := geo.ResolveString(loc.Point)
	if err != nil {
		return nil, fmt.Errorf("resolving location %d of property %d: %w", loc.ID, p.ID, err)
	}
	return &EnrichedProperty{
		Property: *p,
		Location: EnrichedLocation{Location: *loc, Coordinates: coords},
	}, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface{ Scan(...interface{}) error }

// Scan scans a property from a row selected with Columns.
func Scan(row scanner) (*Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PricePerMonth,
		&p.Beds, &p.Baths, &p.SquareFeet, &p.PropertyType,
		&p.LocationID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ScanWithLocation scans a property and its location from a row selected
// with JoinedColumns.
func ScanWithLocation(row scanner) (*Property, *Location, error) {
	var p Property
	var l Location
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PricePerMonth,
		&p.Beds, &p.Baths, &p.SquareFeet, &p.PropertyType,
		&p.LocationID, &p.CreatedAt,
		&l.ID, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode, &l.Point,
	)
	if err != nil {
		return nil, nil, err
	}
	return &p, &l, nil
}
