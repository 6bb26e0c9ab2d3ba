package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/rental-finder/internal/geo"
	"github.com/evcraddock/rental-finder/internal/logging"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

// Error codes returned in the "code" field of error responses.
const (
	codeTenantNotFound   = "tenant_not_found"
	codePropertyNotFound = "property_not_found"
	codeAlreadyFavorited = "already_favorited"
	codeDuplicateTenant  = "duplicate_tenant"
	codeGeometryDecode   = "geometry_decode"
	codeInvalidPayload   = "invalid_payload"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []fieldError `json:"fields,omitempty"`
}

// fieldError describes one failed validation rule.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg, code string, status int) {
	apiJSON(w, errorResponse{Error: msg, Code: code}, status)
}

// apiServiceError maps a tenant/property/geometry error to its status.
// Unrecognised errors are logged and reported as internal without their text.
func apiServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		apiError(w, "tenant not found", codeTenantNotFound, http.StatusNotFound)
	case errors.Is(err, tenant.ErrPropertyNotFound):
		apiError(w, "property not found", codePropertyNotFound, http.StatusNotFound)
	case errors.Is(err, tenant.ErrAlreadyFavorited):
		apiError(w, "property already added as favorite", codeAlreadyFavorited, http.StatusConflict)
	case errors.Is(err, tenant.ErrDuplicateTenant):
		apiError(w, "tenant already registered", codeDuplicateTenant, http.StatusConflict)
	case errors.Is(err, geo.ErrDecode):
		slog.ErrorContext(r.Context(), action, "request_id", logging.RequestID(r.Context()), "error", err)
		apiError(w, action+": stored location is invalid", codeGeometryDecode, http.StatusInternalServerError)
	default:
		slog.ErrorContext(r.Context(), action, "request_id", logging.RequestID(r.Context()), "error", err)
		apiError(w, action+" failed", codeInternal, http.StatusInternalServerError)
	}
}

// apiValidationError writes a 400 listing each failed field.
func apiValidationError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "invalid request body", Code: codeInvalidPayload}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fieldError{
				Field:   fe.Field(),
				Message: fe.Error(),
				Code:    fe.Tag(),
			})
		}
	}

	apiJSON(w, resp, http.StatusBadRequest)
}
