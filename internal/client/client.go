// Package client provides an HTTP client for the rental-finder REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/evcraddock/rental-finder/internal/property"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

// Client is an HTTP client for the rental-finder API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: %s", http.StatusText(e.Status))
	}
	return e.Message
}

// NewTenant is the body of a tenant registration.
type NewTenant struct {
	CognitoID   string `json:"cognito_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// TenantChanges is the body of a tenant update. Nil fields are left unchanged.
type TenantChanges struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// Health reports whether the server and its database are up.
func (c *Client) Health() error {
	return c.do(http.MethodGet, "/health", nil, nil)
}

// GetTenant returns a tenant with its favorites.
func (c *Client) GetTenant(id int64) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodGet, fmt.Sprintf("/tenants/by-id/%d", id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenantByCognitoID returns the tenant registered under an external identity.
func (c *Client) GetTenantByCognitoID(cognitoID string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodGet, "/tenants/"+url.PathEscape(cognitoID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTenant registers a tenant.
func (c *Client) CreateTenant(req NewTenant) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodPost, "/tenants", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTenant changes a tenant's profile.
func (c *Client) UpdateTenant(id int64, changes TenantChanges) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodPut, fmt.Sprintf("/tenants/by-id/%d", id), changes, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Residences returns the properties a tenant occupies with coordinates.
func (c *Client) Residences(tenantID int64) ([]*property.EnrichedProperty, error) {
	var props []*property.EnrichedProperty
	if err := c.do(http.MethodGet, fmt.Sprintf("/tenants/by-id/%d/current-residences", tenantID), nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// AddFavorite favorites a property and returns the updated tenant.
func (c *Client) AddFavorite(tenantID, propertyID int64) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodPost, favoritePath(tenantID, propertyID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// RemoveFavorite unfavorites a property and returns the updated tenant.
func (c *Client) RemoveFavorite(tenantID, propertyID int64) (*tenant.Tenant, error) {
	var t tenant.Tenant
	if err := c.do(http.MethodDelete, favoritePath(tenantID, propertyID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetProperty returns a property with its resolved location.
func (c *Client) GetProperty(id int64) (*property.EnrichedProperty, error) {
	var p property.EnrichedProperty
	if err := c.do(http.MethodGet, fmt.Sprintf("/properties/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func favoritePath(tenantID, propertyID int64) string {
	return fmt.Sprintf("/tenants/by-id/%d/favorites/%d", tenantID, propertyID)
}

// do sends a request with an optional JSON body and decodes the response.
func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Message = errResp.Error
			apiErr.Code = errResp.Code
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
