// Package client is the typed registry client every service uses to find its
// peers and call them. Peers are resolved through the registry on every call;
// there is no lookup caching, no retry and no circuit breaking, only a
// configurable deadline on the underlying HTTP client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

// DependencyError is the single structured error for "a cross-service call
// failed": registry lookup failed, peer unreachable, or peer answered with an
// error status.
type DependencyError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *DependencyError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s service: %s", e.Service, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s service unavailable", e.Service)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

type Client struct {
	registryURL string
	httpClient  *http.Client
}

func New(registryURL string, timeout time.Duration) *Client {
	return &Client{
		registryURL: registryURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetService resolves a logical service name against the registry.
func (c *Client) GetService(ctx context.Context, name string) (registry.ServiceRecord, error) {
	var record registry.ServiceRecord

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.registryURL+"/service/"+name, nil)
	if err != nil {
		return record, &DependencyError{Service: name, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return record, &DependencyError{Service: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return record, &DependencyError{
			Service:    name,
			StatusCode: resp.StatusCode,
			Message:    "not found in registry",
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return record, &DependencyError{Service: name, Err: err}
	}

	return record, nil
}

// RegisterSelf announces a service to the registry. Callers treat failure as
// non-fatal; the registry ships with seeded defaults.
func (c *Client) RegisterSelf(ctx context.Context, name, url string, endpoints map[string]string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"url":       url,
		"endpoints": endpoints,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.registryURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return nil
}

// GetProductDetails resolves the product service and fetches one product.
// Used by the cart service (add item) and the order service (price snapshot).
func (c *Client) GetProductDetails(ctx context.Context, productID string) (*models.Product, error) {
	record, err := c.GetService(ctx, "product")
	if err != nil {
		return nil, err
	}

	var data struct {
		Product models.Product `json:"product"`
	}
	if err := c.doJSON(ctx, "product", http.MethodGet, record.URL+"/api/products/"+productID, nil, nil, &data); err != nil {
		return nil, err
	}

	return &data.Product, nil
}

// ClearCart resolves the cart service and empties the user's cart. The order
// service calls this best-effort after placing an order.
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	record, err := c.GetService(ctx, "cart")
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return err
	}

	return c.doJSON(ctx, "cart", http.MethodPost, record.URL+"/api/carts/clear", payload, nil, nil)
}

// GetAuthUser fetches a user's identity fields from the auth service,
// forwarding the caller's own bearer token.
func (c *Client) GetAuthUser(ctx context.Context, userID, bearerToken string) (*models.PublicUser, error) {
	record, err := c.GetService(ctx, "auth")
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"Authorization": "Bearer " + bearerToken}

	var data struct {
		User models.PublicUser `json:"user"`
	}
	if err := c.doJSON(ctx, "auth", http.MethodGet, record.URL+"/api/auth/users/"+userID, nil, headers, &data); err != nil {
		return nil, err
	}

	return &data.User, nil
}

// TokenValidation is the auth service's answer to a validate-token call.
type TokenValidation struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ValidateToken asks the auth service whether a bearer token is valid. Every
// authenticated request to the user and product services costs one of these
// round trips; there is no local verification or caching.
func (c *Client) ValidateToken(ctx context.Context, bearerToken string) (*TokenValidation, error) {
	record, err := c.GetService(ctx, "auth")
	if err != nil {
		return nil, err
	}

	path := record.Endpoints["validateToken"]
	if path == "" {
		path = "/api/auth/validate-token"
	}

	headers := map[string]string{"Authorization": "Bearer " + bearerToken}

	var data TokenValidation
	if err := c.doJSON(ctx, "auth", http.MethodGet, record.URL+path, nil, headers, &data); err != nil {
		return nil, err
	}

	if !data.Valid {
		return nil, &DependencyError{Service: "auth", StatusCode: http.StatusUnauthorized, Message: "invalid token"}
	}

	return &data, nil
}

// doJSON performs one request against a resolved peer and unwraps the shared
// response envelope into out.
func (c *Client) doJSON(ctx context.Context, service, method, url string, body []byte, headers map[string]string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &DependencyError{Service: service, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &DependencyError{Service: service, Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *utils.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &DependencyError{Service: service, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest || !envelope.Success {
		message := http.StatusText(resp.StatusCode)
		if envelope.Error != nil {
			message = envelope.Error.Message
		}
		return &DependencyError{Service: service, StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &DependencyError{Service: service, StatusCode: resp.StatusCode, Err: err}
		}
	}

	return nil
}
