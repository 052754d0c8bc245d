package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, records map[string]map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[len("/service/"):]
		record, ok := records[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Service not found"})
			return
		}
		json.NewEncoder(w).Encode(record)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetServiceResolvesRecord(t *testing.T) {
	registry := newRegistry(t, map[string]map[string]interface{}{
		"auth": {
			"url":       "http://localhost:5001",
			"endpoints": map[string]string{"validateToken": "/api/auth/validate-token"},
		},
	})

	c := New(registry.URL, 2*time.Second)

	record, err := c.GetService(context.Background(), "auth")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", record.URL)
	assert.Equal(t, "/api/auth/validate-token", record.Endpoints["validateToken"])
}

func TestGetServiceUnknownName(t *testing.T) {
	registry := newRegistry(t, nil)
	c := New(registry.URL, 2*time.Second)

	_, err := c.GetService(context.Background(), "ghost")
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "ghost", depErr.Service)
	assert.Equal(t, http.StatusNotFound, depErr.StatusCode)
}

func TestGetServiceRegistryUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := c.GetService(context.Background(), "auth")
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "auth", depErr.Service)
	assert.NotNil(t, depErr.Err)
}

func TestGetProductDetailsUnwrapsEnvelope(t *testing.T) {
	product := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"product": map[string]interface{}{
					"id":    "p1",
					"name":  "Coffee Beans",
					"price": 12.5,
				},
			},
		})
	}))
	defer product.Close()

	registry := newRegistry(t, map[string]map[string]interface{}{
		"product": {"url": product.URL},
	})
	c := New(registry.URL, 2*time.Second)

	got, err := c.GetProductDetails(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Coffee Beans", got.Name)
	assert.Equal(t, 12.5, got.Price)
}

func TestGetProductDetailsDownstreamError(t *testing.T) {
	product := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "NOT_FOUND", "message": "Product not found"},
		})
	}))
	defer product.Close()

	registry := newRegistry(t, map[string]map[string]interface{}{
		"product": {"url": product.URL},
	})
	c := New(registry.URL, 2*time.Second)

	_, err := c.GetProductDetails(context.Background(), "ghost")
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "product", depErr.Service)
	assert.Equal(t, http.StatusNotFound, depErr.StatusCode)
	assert.Equal(t, "Product not found", depErr.Message)
}

func TestValidateToken(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/validate-token", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "UNAUTHORIZED", "message": "Invalid or expired token"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"valid":    true,
				"userId":   "u1",
				"username": "alice",
				"role":     "user",
			},
		})
	}))
	defer auth.Close()

	registry := newRegistry(t, map[string]map[string]interface{}{
		"auth": {"url": auth.URL},
	})
	c := New(registry.URL, 2*time.Second)

	validation, err := c.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", validation.UserID)
	assert.Equal(t, "alice", validation.Username)

	_, err = c.ValidateToken(context.Background(), "bad-token")
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, http.StatusUnauthorized, depErr.StatusCode)
}

func TestValidateTokenTimesOut(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]bool{"valid": true}})
	}))
	defer auth.Close()

	registry := newRegistry(t, map[string]map[string]interface{}{
		"auth": {"url": auth.URL},
	})
	c := New(registry.URL, 100*time.Millisecond)

	_, err := c.ValidateToken(context.Background(), "token")
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "auth", depErr.Service)
}

func TestRegisterSelf(t *testing.T) {
	var got map[string]interface{}
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer registry.Close()

	c := New(registry.URL, 2*time.Second)
	err := c.RegisterSelf(context.Background(), "cart", "http://localhost:5004", map[string]string{
		"getCarts": "/api/carts",
	})
	require.NoError(t, err)
	assert.Equal(t, "cart", got["name"])
	assert.Equal(t, "http://localhost:5004", got["url"])
}
