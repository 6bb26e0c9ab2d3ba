// Package tenant manages renters and their relationships to properties:
// the favorites they mark and the residences they occupy.
package tenant

import (
	"time"

	"github.com/evcraddock/rental-finder/internal/property"
)

// Tenant is a renter account.
type Tenant struct {
	ID          int64                `json:"id"`
	CognitoID   string               `json:"cognito_id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	PhoneNumber string               `json:"phone_number"`
	Favorites   []*property.Property `json:"favorites"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// HasFavorite reports whether propertyID is in t's favorites.
func (t *Tenant) HasFavorite(propertyID int64) bool {
	for _, p := range t.Favorites {
		if p.ID == propertyID {
			return true
		}
	}
	return false
}

// Update holds profile changes. Nil fields are left unchanged.
type Update struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// Residence is a property a tenant currently occupies, with its location.
type Residence struct {
	Property *property.Property
	Location *property.Location
}
