package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evcraddock/rental-finder/internal/geo"
	"github.com/evcraddock/rental-finder/internal/property"
)

// Store is the relationship store the service runs against.
// *Repository implements it.
type Store interface {
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	GetByID(ctx context.Context, id int64) (*Tenant, error)
	GetByCognitoID(ctx context.Context, cognitoID string) (*Tenant, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, u Update) (*Tenant, error)
	Residences(ctx context.Context, tenantID int64) ([]Residence, error)
	AddFavorite(ctx context.Context, tenantID, propertyID int64) error
	RemoveFavorite(ctx context.Context, tenantID, propertyID int64) error
}

// Service provides tenant business logic. It keeps no state between calls.
type Service struct {
	store Store
}

// NewService creates a tenant service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns a tenant with its favorites.
func (s *Service) Get(ctx context.Context, id int64) (*Tenant, error) {
	return s.store.GetByID(ctx, id)
}

// GetByCognitoID returns the tenant registered under an external identity.
func (s *Service) GetByCognitoID(ctx context.Context, cognitoID string) (*Tenant, error) {
	return s.store.GetByCognitoID(ctx, cognitoID)
}

// Create registers a tenant.
func (s *Service) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	saved, err := s.store.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("creating tenant: %w", err)
	}
	slog.Info("tenant created", "tenant_id", saved.ID)
	return saved, nil
}

// Update changes a tenant's profile fields.
func (s *Service) Update(ctx context.Context, id int64, u Update) (*Tenant, error) {
	t, err := s.store.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("updating tenant: %w", err)
	}
	return t, nil
}

// Residences returns the properties the tenant currently occupies with
// resolved coordinates. A single undecodable point fails the whole call;
// no partial list is returned.
func (s *Service) Residences(ctx context.Context, tenantID int64) ([]*property.EnrichedProperty, error) {
	ok, err := s.store.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, ErrTenantNotFound)
	}

	residences, err := s.store.Residences(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	enriched := make([]*property.EnrichedProperty, 0, len(residences))
	for _, r := range residences {
		ep, err := property.Enrich(r.Property, r.Location)
		if err != nil {
			if errors.Is(err, geo.ErrDecode) {
				slog.Error("stored location does not decode",
					"tenant_id", tenantID,
					"property_id", r.Property.ID,
					"location_id", r.Location.ID,
					"error", err,
				)
			}
			return nil, err
		}
		enriched = append(enriched, ep)
	}

	return enriched, nil
}

// AddFavorite marks propertyID as a favorite of tenantID and returns the
// updated tenant. Favoriting an already favorited property fails with
// ErrAlreadyFavorited and changes nothing.
func (s *Service) AddFavorite(ctx context.Context, tenantID, propertyID int64) (*Tenant, error) {
	t, err := s.store.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if t.HasFavorite(propertyID) {
		slog.Warn("favorite already present", "tenant_id", tenantID, "property_id", propertyID)
		return nil, fmt.Errorf("property %d for tenant %d: %w", propertyID, tenantID, ErrAlreadyFavorited)
	}

	if err := s.store.AddFavorite(ctx, tenantID, propertyID); err != nil {
		if errors.Is(err, ErrAlreadyFavorited) {
			slog.Warn("favorite added concurrently", "tenant_id", tenantID, "property_id", propertyID)
		}
		return nil, err
	}

	return s.store.GetByID(ctx, tenantID)
}

// RemoveFavorite unmarks propertyID and returns the updated tenant.
// Removing a property that is not a favorite succeeds without change.
func (s *Service) RemoveFavorite(ctx context.Context, tenantID, propertyID int64) (*Tenant, error) {
	if err := s.store.RemoveFavorite(ctx, tenantID, propertyID); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, tenantID)
}
