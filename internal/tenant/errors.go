package tenant

import (
	"errors"

	"github.com/evcraddock/rental-finder/internal/property"
)

// Errors returned by the repository and service. Callers match them with
// errors.Is; messages may carry extra context.
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrPropertyNotFound = property.ErrNotFound
	ErrAlreadyFavorited = errors.New("property already added as favorite")
	ErrDuplicateTenant  = errors.New("tenant already registered")
)
