package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/storefront-backend/internal/config"
)

func TestStoreRegisterAndLookup(t *testing.T) {
	store := NewStore()

	_, ok := store.Lookup("auth")
	assert.False(t, ok)

	store.Register("auth", ServiceRecord{URL: "http://localhost:5001"})

	record, ok := store.Lookup("auth")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:5001", record.URL)
	assert.NotNil(t, record.Endpoints)
}

func TestStoreRegisterIsLastWriteWins(t *testing.T) {
	store := NewStore()

	store.Register("auth", ServiceRecord{URL: "http://old-host:5001"})
	store.Register("auth", ServiceRecord{
		URL:       "http://new-host:5001",
		Endpoints: map[string]string{"validateToken": "/api/auth/validate-token"},
	})

	record, ok := store.Lookup("auth")
	require.True(t, ok)
	assert.Equal(t, "http://new-host:5001", record.URL)
	assert.Equal(t, "/api/auth/validate-token", record.Endpoints["validateToken"])

	assert.Len(t, store.All(), 1)
}

func TestStoreAllReturnsACopy(t *testing.T) {
	store := NewStore()
	store.Register("auth", ServiceRecord{URL: "http://localhost:5001"})

	all := store.All()
	all["auth"] = ServiceRecord{URL: "http://mutated"}
	all["rogue"] = ServiceRecord{URL: "http://rogue"}

	record, ok := store.Lookup("auth")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:5001", record.URL)

	_, ok = store.Lookup("rogue")
	assert.False(t, ok)
}

func TestSeededStoreKnowsAllFiveServices(t *testing.T) {
	store := NewSeededStore(config.ServicesConfig{
		AuthURL:    "http://localhost:5001",
		UserURL:    "http://localhost:5002",
		ProductURL: "http://localhost:5003",
		CartURL:    "http://localhost:5004",
		OrderURL:   "http://localhost:5005",
	})

	for _, name := range []string{"auth", "user", "product", "cart", "order"} {
		record, ok := store.Lookup(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, record.URL, name)
	}

	auth, _ := store.Lookup("auth")
	assert.Equal(t, "/api/auth/validate-token", auth.Endpoints["validateToken"])
}
