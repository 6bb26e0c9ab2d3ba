// Package web provides the HTTP API for tenants, favorites and residences.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/evcraddock/rental-finder/internal/config"
	"github.com/evcraddock/rental-finder/internal/logging"
	"github.com/evcraddock/rental-finder/internal/property"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

// Route patterns.
const (
	RouteHealth           = "/health"
	RouteTenants          = "/tenants"
	RouteTenantByCognito  = "/tenants/{cognitoId}"
	RouteTenant           = "/tenants/by-id/{id}"
	RouteTenantResidences = "/tenants/by-id/{id}/current-residences"
	RouteTenantFavorite   = "/tenants/by-id/{id}/favorites/{propertyId}"
	RouteProperty         = "/properties/{id}"
)

const (
	shutdownGracePeriod = 10 * time.Second
	readHeaderTimeout   = 5 * time.Second
)

// Server is the API HTTP server.
type Server struct {
	db       *sql.DB
	tenants  *tenant.Service
	propRepo *property.Repository
	validate *validator.Validate
	router   *mux.Router
	handler  http.Handler
}

// NewServer creates an API server on db.
func NewServer(db *sql.DB, cfg config.Config) *Server {
	s := &Server{
		db:       db,
		tenants:  tenant.NewService(tenant.NewRepository(db)),
		propRepo: property.NewRepository(db),
		validate: newValidator(),
		router:   mux.NewRouter(),
	}

	s.router.HandleFunc(RouteHealth, s.handleHealth).Methods(http.MethodGet)

	s.router.HandleFunc(RouteTenants, s.apiCreateTenant).Methods(http.MethodPost)
	s.router.HandleFunc(RouteTenantByCognito, s.apiGetTenantByCognito).Methods(http.MethodGet)
	s.router.HandleFunc(RouteTenant, s.apiGetTenant).Methods(http.MethodGet)
	s.router.HandleFunc(RouteTenant, s.apiUpdateTenant).Methods(http.MethodPut)
	s.router.HandleFunc(RouteTenantResidences, s.apiGetResidences).Methods(http.MethodGet)
	s.router.HandleFunc(RouteTenantFavorite, s.apiAddFavorite).Methods(http.MethodPost)
	s.router.HandleFunc(RouteTenantFavorite, s.apiRemoveFavorite).Methods(http.MethodDelete)
	s.router.HandleFunc(RouteProperty, s.apiGetProperty).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", codeNotFound, http.StatusNotFound)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", codeMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader},
	})
	s.handler = logging.RequestLogger(c.Handler(s.router))

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		apiError(w, "database unavailable", codeInternal, http.StatusServiceUnavailable)
		return
	}
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
