package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/evcraddock/rental-finder/internal/tenant"
)

// createTenantRequest is the body of POST /tenants.
type createTenantRequest struct {
	CognitoID   string `json:"cognito_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
}

// updateTenantRequest is the body of PUT /tenants/by-id/{id}.
// Omitted fields are left unchanged.
type updateTenantRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// pathID parses the named route variable as a positive ID.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// tenantAndPropertyIDs parses {id} and {propertyId}, writing a 400 on failure.
func tenantAndPropertyIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	tenantID, err := pathID(r, "id")
	if err != nil {
		apiError(w, "invalid tenant ID", codeInvalidPayload, http.StatusBadRequest)
		return 0, 0, false
	}
	propertyID, err := pathID(r, "propertyId")
	if err != nil {
		apiError(w, "invalid property ID", codeInvalidPayload, http.StatusBadRequest)
		return 0, 0, false
	}
	return tenantID, propertyID, true
}

// apiCreateTenant registers a tenant.
func (s *Server) apiCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", codeInvalidPayload, http.StatusBadRequest)
		return
	}
	req.CognitoID = strings.TrimSpace(req.CognitoID)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		apiValidationError(w, err)
		return
	}

	t, err := s.tenants.Create(r.Context(), &tenant.Tenant{
		CognitoID:   req.CognitoID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		apiServiceError(w, r, "creating tenant", err)
		return
	}

	apiJSON(w, t, http.StatusCreated)
}

// apiGetTenant returns a tenant with its favorites.
func (s *Server) apiGetTenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apiError(w, "invalid tenant ID", codeInvalidPayload, http.StatusBadRequest)
		return
	}

	t, err := s.tenants.Get(r.Context(), id)
	if err != nil {
		apiServiceError(w, r, "retrieving tenant", err)
		return
	}

	apiJSON(w, t, http.StatusOK)
}

// apiGetTenantByCognito looks a tenant up by external identity.
func (s *Server) apiGetTenantByCognito(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenants.GetByCognitoID(r.Context(), mux.Vars(r)["cognitoId"])
	if err != nil {
		apiServiceError(w, r, "retrieving tenant", err)
		return
	}

	apiJSON(w, t, http.StatusOK)
}

// apiUpdateTenant changes a tenant's profile.
func (s *Server) apiUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apiError(w, "invalid tenant ID", codeInvalidPayload, http.StatusBadRequest)
		return
	}

	var req updateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", codeInvalidPayload, http.StatusBadRequest)
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := s.validate.Struct(req); err != nil {
		apiValidationError(w, err)
		return
	}

	t, err := s.tenants.Update(r.Context(), id, tenant.Update{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		apiServiceError(w, r, "updating tenant", err)
		return
	}

	apiJSON(w, t, http.StatusOK)
}

// apiGetResidences returns the tenant's current residences with coordinates.
func (s *Server) apiGetResidences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apiError(w, "invalid tenant ID", codeInvalidPayload, http.StatusBadRequest)
		return
	}

	residences, err := s.tenants.Residences(r.Context(), id)
	if err != nil {
		apiServiceError(w, r, "retrieving residences", err)
		return
	}

	apiJSON(w, residences, http.StatusOK)
}

// apiAddFavorite adds a property to the tenant's favorites.
func (s *Server) apiAddFavorite(w http.ResponseWriter, r *http.Request) {
	tenantID, propertyID, ok := tenantAndPropertyIDs(w, r)
	if !ok {
		return
	}

	t, err := s.tenants.AddFavorite(r.Context(), tenantID, propertyID)
	if err != nil {
		apiServiceError(w, r, "adding favorite property", err)
		return
	}

	apiJSON(w, t, http.StatusOK)
}

// apiRemoveFavorite removes a property from the tenant's favorites.
func (s *Server) apiRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	tenantID, propertyID, ok := tenantAndPropertyIDs(w, r)
	if !ok {
		return
	}

	t, err := s.tenants.RemoveFavorite(r.Context(), tenantID, propertyID)
	if err != nil {
		apiServiceError(w, r, "removing favorite property", err)
		return
	}

	apiJSON(w, t, http.StatusOK)
}

// apiGetProperty returns a property with its resolved location.
func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apiError(w, "invalid property ID", codeInvalidPayload, http.StatusBadRequest)
		return
	}

	p, err := s.propRepo.GetEnriched(r.Context(), id)
	if err != nil {
		apiServiceError(w, r, "retrieving property", err)
		return
	}

	apiJSON(w, p, http.StatusOK)
}
