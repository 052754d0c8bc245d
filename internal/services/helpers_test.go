package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopmesh/storefront-backend/internal/config"
	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

func newTestDB(t *testing.T, dst ...interface{}) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(dst...))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey: "test-secret",
			TokenTTL:  1,
		},
	}
}

// fakeMesh stands in for the registry plus the peers behind it. One backend
// server plays every peer; the registry server resolves every service name to
// it.
type fakeMesh struct {
	mu         sync.Mutex
	products   map[string]models.Product
	authUsers  map[string]models.PublicUser
	cartClears []string
	failClear  bool

	registry *httptest.Server
	backend  *httptest.Server
}

func newFakeMesh(t *testing.T) *fakeMesh {
	t.Helper()

	m := &fakeMesh{
		products:  make(map[string]models.Product),
		authUsers: make(map[string]models.PublicUser),
	}

	m.backend = httptest.NewServer(http.HandlerFunc(m.serveBackend))
	m.registry = httptest.NewServer(http.HandlerFunc(m.serveRegistry))
	t.Cleanup(m.backend.Close)
	t.Cleanup(m.registry.Close)

	return m
}

func (m *fakeMesh) setProduct(p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *fakeMesh) setAuthUser(u models.PublicUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authUsers[u.ID] = u
}

func (m *fakeMesh) failCartClears() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failClear = true
}

func (m *fakeMesh) client() *client.Client {
	return client.New(m.registry.URL, 2*time.Second)
}

func (m *fakeMesh) clearedCarts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cartClears...)
}

func (m *fakeMesh) serveRegistry(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/service/") {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":       m.backend.URL,
		"endpoints": map[string]string{},
	})
}

func (m *fakeMesh) serveBackend(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		product, ok := m.products[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "NOT_FOUND", "message": "Product not found"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"product": product},
		})

	case strings.HasPrefix(r.URL.Path, "/api/auth/users/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/auth/users/")
		user, ok := m.authUsers[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "NOT_FOUND", "message": "User not found"},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"user": user},
		})

	case r.URL.Path == "/api/carts/clear":
		if m.failClear {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   map[string]string{"code": "INTERNAL_ERROR", "message": "boom"},
			})
			return
		}
		var body struct {
			UserID string `json:"userId"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		m.cartClears = append(m.cartClears, body.UserID)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"message": "Cart cleared"},
		})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
