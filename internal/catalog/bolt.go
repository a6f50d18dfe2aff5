package catalog

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/ishu524/productr/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	catalogBucket = []byte("catalog")
	productsKey   = []byte("products")
)

// BoltBackend persists the catalog as a single JSON array blob under one
// bucket key, mirroring the browser-local storage the product started with.
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the catalog database file and ensures
// the bucket exists.
func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open catalog db")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(catalogBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init catalog bucket")
	}
	return &BoltBackend{db: db}, nil
}

// NewBoltBackendFromDB wraps an already-open handle (shared with the app).
func NewBoltBackendFromDB(db *bolt.DB) (*BoltBackend, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(catalogBucket)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "init catalog bucket")
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// Load returns the persisted collection. An absent key or a payload that no
// longer parses degrades to an empty collection rather than an error; a
// damaged blob must never brick the catalog.
func (b *BoltBackend) Load() ([]domain.Product, error) {
	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(catalogBucket)
		if bkt == nil {
			return nil
		}
		if v := bkt.Get(productsKey); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	if len(raw) == 0 {
		return []domain.Product{}, nil
	}
	var collection []domain.Product
	if err := json.Unmarshal(raw, &collection); err != nil {
		zap.L().Warn("catalog blob unreadable, starting empty", zap.Error(err))
		return []domain.Product{}, nil
	}
	return collection, nil
}

func (b *BoltBackend) Save(collection []domain.Product) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return errors.Wrap(err, "encode catalog")
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(catalogBucket).Put(productsKey, raw)
	})
	return errors.Wrap(err, "write catalog")
}
