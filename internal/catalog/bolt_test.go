package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/ishu524/productr/internal/domain"
)

func TestBoltBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	backend, err := NewBoltBackend(path)
	require.NoError(t, err)
	defer backend.Close()

	// empty database loads as an empty collection
	collection, err := backend.Load()
	require.NoError(t, err)
	require.Empty(t, collection)

	in := []domain.Product{
		{ID: 1, ProductName: "Brownie", ProductType: domain.ProductTypeFood, Published: true},
		{ID: 2, ProductName: "Blondie", ProductType: domain.ProductTypeFood},
	}
	require.NoError(t, backend.Save(in))

	out, err := backend.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(1), out[0].ID)
	require.Equal(t, "Brownie", out[0].ProductName)
	require.True(t, out[0].Published)
}

func TestBoltBackendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	backend, err := NewBoltBackend(path)
	require.NoError(t, err)
	require.NoError(t, backend.Save([]domain.Product{{ID: 7, ProductName: "Brownie"}}))
	require.NoError(t, backend.Close())

	reopened, err := NewBoltBackend(path)
	require.NoError(t, err)
	defer reopened.Close()

	out, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, int64(7), out[0].ID)
}

func TestBoltBackendMalformedBlobDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	backend, err := NewBoltBackend(path)
	require.NoError(t, err)
	defer backend.Close()

	// scribble garbage over the catalog key directly
	err = backend.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(catalogBucket).Put(productsKey, []byte("{not json"))
	})
	require.NoError(t, err)

	out, err := backend.Load()
	require.NoError(t, err)
	require.Empty(t, out)

	// the store stays usable after the degrade
	node := newTestNode(t)
	store := NewStore(backend, node)
	_, err = store.Create(brownieDraft())
	require.NoError(t, err)

	collection, err := store.Load()
	require.NoError(t, err)
	require.Len(t, collection, 1)
}
