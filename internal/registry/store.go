package registry

import (
	"sync"

	"github.com/shopmesh/storefront-backend/internal/config"
)

// ServiceRecord is the registry's view of one service: where it lives and
// which endpoints it advertises. Records are volatile; a registry restart
// loses everything except the config-seeded defaults.
type ServiceRecord struct {
	URL       string            `json:"url"`
	Endpoints map[string]string `json:"endpoints"`
}

// Store is the in-memory name -> ServiceRecord directory. Registration is
// last-write-wins with no versioning and no reachability checks.
type Store struct {
	mu       sync.RWMutex
	services map[string]ServiceRecord
}

func NewStore() *Store {
	return &Store{
		services: make(map[string]ServiceRecord),
	}
}

// NewSeededStore returns a store preloaded with the well-known records for
// the five storefront services, so lookups work even before a service
// re-registers itself.
func NewSeededStore(cfg config.ServicesConfig) *Store {
	s := NewStore()
	s.Register("auth", ServiceRecord{
		URL: cfg.AuthURL,
		Endpoints: map[string]string{
			"validateToken": "/api/auth/validate-token",
			"getUserInfo":   "/api/auth/user",
		},
	})
	s.Register("user", ServiceRecord{
		URL: cfg.UserURL,
		Endpoints: map[string]string{
			"getUser": "/api/users",
		},
	})
	s.Register("product", ServiceRecord{
		URL: cfg.ProductURL,
		Endpoints: map[string]string{
			"getProducts": "/api/products",
		},
	})
	s.Register("cart", ServiceRecord{
		URL: cfg.CartURL,
		Endpoints: map[string]string{
			"getCarts": "/api/carts",
		},
	})
	s.Register("order", ServiceRecord{
		URL: cfg.OrderURL,
		Endpoints: map[string]string{
			"getOrders": "/api/orders",
		},
	})
	return s
}

// Register inserts or overwrites the record for name.
func (s *Store) Register(name string, record ServiceRecord) {
	if record.Endpoints == nil {
		record.Endpoints = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[name] = record
}

// Lookup returns the stored record, or false if name was never registered.
func (s *Store) Lookup(name string) (ServiceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.services[name]
	return record, ok
}

// All returns a copy of the full current mapping.
func (s *Store) All() map[string]ServiceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ServiceRecord, len(s.services))
	for name, record := range s.services {
		out[name] = record
	}
	return out
}
