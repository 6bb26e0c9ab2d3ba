// Package seed loads a small demo dataset of properties, tenants,
// residences and favorites.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evcraddock/rental-finder/internal/geo"
	"github.com/evcraddock/rental-finder/internal/property"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

// DefaultTenantCognitoID marks the dataset; if a tenant with this id exists
// the seed is assumed applied.
const DefaultTenantCognitoID = "seed-tenant-ana"

type demoProperty struct {
	property property.Property
	location property.Location
	coords   geo.Coordinates
}

var demoProperties = []demoProperty{
	{
		property: property.Property{Name: "Paulista Studio", PricePerMonth: 2400, Beds: 1, Baths: 1, SquareFeet: 430, PropertyType: "Apartment"},
		location: property.Location{Address: "Av. Paulista 1578", City: "São Paulo", State: "SP", Country: "Brazil", PostalCode: "01310-200"},
		coords:   geo.Coordinates{Longitude: -46.6559, Latitude: -23.5614},
	},
	{
		property: property.Property{Name: "Copacabana Two Bed", PricePerMonth: 3900, Beds: 2, Baths: 2, SquareFeet: 860, PropertyType: "Apartment"},
		location: property.Location{Address: "Av. Atlântica 1702", City: "Rio de Janeiro", State: "RJ", Country: "Brazil", PostalCode: "22021-001"},
		coords:   geo.Coordinates{Longitude: -43.1791, Latitude: -22.9673},
	},
	{
		property: property.Property{Name: "Savassi Townhouse", PricePerMonth: 3100, Beds: 3, Baths: 2.5, SquareFeet: 1400, PropertyType: "Townhouse"},
		location: property.Location{Address: "Rua Pernambuco 1000", City: "Belo Horizonte", State: "MG", Country: "Brazil", PostalCode: "30130-151"},
		coords:   geo.Coordinates{Longitude: -43.9352, Latitude: -19.9359},
	},
}

var demoTenants = []tenant.Tenant{
	{CognitoID: DefaultTenantCognitoID, Name: "Ana Souza", Email: "ana@example.com", PhoneNumber: "+55 11 91234-0001"},
	{CognitoID: "seed-tenant-bruno", Name: "Bruno Lima", Email: "bruno@example.com", PhoneNumber: "+55 21 91234-0002"},
}

// Result reports what a seed run created.
type Result struct {
	Skipped    bool
	Properties []*property.Property
	Tenants    []*tenant.Tenant
}

// Run inserts the demo dataset unless it is already present.
// Tenant i lives in property i; the first tenant favorites every other
// property. Everything is written in one transaction, so a failed run
// leaves no rows behind.
func Run(ctx context.Context, d *sql.DB) (*Result, error) {
	return run(ctx, d, demoProperties, demoTenants)
}

func run(ctx context.Context, d *sql.DB, props []demoProperty, tenants []tenant.Tenant) (*Result, error) {
	tenantRepo := tenant.NewRepository(d)

	if _, err := tenantRepo.GetByCognitoID(ctx, DefaultTenantCognitoID); err == nil {
		slog.Info("seeding: demo data already present; skipping")
		return &Result{Skipped: true}, nil
	} else if !errors.Is(err, tenant.ErrTenantNotFound) {
		return nil, fmt.Errorf("checking existing seed: %w", err)
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	propertyIDs := make([]int64, 0, len(props))
	for _, dp := range props {
		p, loc := dp.property, dp.location
		loc.Point = geo.Encode(dp.coords)
		id, err := property.InsertTx(ctx, tx, &p, &loc)
		if err != nil {
			return nil, fmt.Errorf("seeding property %q: %w", p.Name, err)
		}
		propertyIDs = append(propertyIDs, id)
	}

	tenantIDs := make([]int64, 0, len(tenants))
	for i := range tenants {
		id, err := tenant.CreateTx(ctx, tx, &tenants[i])
		if err != nil {
			return nil, fmt.Errorf("seeding tenant %q: %w", tenants[i].CognitoID, err)
		}
		if i < len(propertyIDs) {
			if err := moveIn(ctx, tx, id, propertyIDs[i]); err != nil {
				return nil, err
			}
		}
		tenantIDs = append(tenantIDs, id)
	}

	if len(tenantIDs) > 0 && len(propertyIDs) > 1 {
		for _, pid := range propertyIDs[1:] {
			if err := tenant.AddFavoriteTx(ctx, tx, tenantIDs[0], pid); err != nil {
				return nil, fmt.Errorf("seeding favorite %d: %w", pid, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing seed: %w", err)
	}

	res := &Result{}
	propertyRepo := property.NewRepository(d)
	for _, id := range propertyIDs {
		p, err := propertyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		res.Properties = append(res.Properties, p)
	}
	for _, id := range tenantIDs {
		t, err := tenantRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		res.Tenants = append(res.Tenants, t)
	}

	slog.Info("seeding: created demo data",
		"properties", len(res.Properties),
		"tenants", len(res.Tenants),
	)
	return res, nil
}

// moveIn records a residence. Residences are managed outside this service,
// so there is no repository write path for them.
func moveIn(ctx context.Context, tx *sql.Tx, tenantID, propertyID int64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO tenant_residences (tenant_id, property_id) VALUES (?, ?)",
		tenantID, propertyID,
	)
	if err != nil {
		return fmt.Errorf("seeding residence of tenant %d: %w", tenantID, err)
	}
	return nil
}
