package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/ishu524/productr/internal/domain"
)

// Tab is a display-only filter predicate over the catalog; it is never
// persisted.
type Tab string

const (
	TabAll         Tab = "all"
	TabPublished   Tab = "published"
	TabUnpublished Tab = "unpublished"
)

// ParseTab maps a query value onto a known tab.
func ParseTab(s string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabAll:
		return TabAll, true
	case TabPublished:
		return TabPublished, true
	case TabUnpublished:
		return TabUnpublished, true
	}
	return "", false
}

// Store is the sole mediator between mutation intents and the persisted
// collection. Every mutation reads the full collection, applies the change
// and writes the full collection back as one logical step; the mutex keeps
// concurrent handlers from interleaving inside that step.
type Store struct {
	mu      sync.Mutex
	backend Backend
	node    *snowflake.Node
}

// NewStore builds a store over the given backend. The snowflake node keeps
// ids time-derived yet collision-free under rapid successive creates.
func NewStore(backend Backend, node *snowflake.Node) *Store {
	return &Store{backend: backend, node: node}
}

// Load returns the persisted collection, or an empty one when nothing has
// been persisted yet. Backend read failures surface as StorageError.
func (s *Store) Load() ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]domain.Product, error) {
	collection, err := s.backend.Load()
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if collection == nil {
		collection = []domain.Product{}
	}
	return collection, nil
}

// Create validates the draft, assigns a fresh id, defaults published=false
// and appends the record. Nothing is persisted when validation fails.
func (s *Store) Create(draft domain.ProductDraft) (domain.Product, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load()
	if err != nil {
		return domain.Product{}, err
	}

	now := time.Now()
	p := productFromDraft(draft)
	p.ID = s.node.Generate().Int64()
	p.Published = false
	p.CreatedAt = now
	p.UpdatedAt = now

	next := append(collection, p)
	if err := s.backend.Save(next); err != nil {
		return domain.Product{}, &StorageError{Op: "save", Err: err}
	}
	return p, nil
}

// Update replaces every field except the id (and creation time) of an
// existing record. Unknown ids report NotFoundError and persist nothing.
func (s *Store) Update(id int64, draft domain.ProductDraft) (domain.Product, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load()
	if err != nil {
		return domain.Product{}, err
	}

	idx := indexOf(collection, id)
	if idx < 0 {
		return domain.Product{}, &NotFoundError{ID: id}
	}

	prev := collection[idx]
	p := productFromDraft(draft)
	p.ID = prev.ID
	p.Published = prev.Published
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = time.Now()

	next := make([]domain.Product, len(collection))
	copy(next, collection)
	next[idx] = p

	if err := s.backend.Save(next); err != nil {
		return domain.Product{}, &StorageError{Op: "save", Err: err}
	}
	return p, nil
}

// TogglePublish flips the published flag of an existing record without
// touching any other field. It does not require the edit form's draft.
func (s *Store) TogglePublish(id int64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load()
	if err != nil {
		return domain.Product{}, err
	}

	idx := indexOf(collection, id)
	if idx < 0 {
		return domain.Product{}, &NotFoundError{ID: id}
	}

	next := make([]domain.Product, len(collection))
	copy(next, collection)
	next[idx].Published = !next[idx].Published
	next[idx].UpdatedAt = time.Now()

	if err := s.backend.Save(next); err != nil {
		return domain.Product{}, &StorageError{Op: "save", Err: err}
	}
	return next[idx], nil
}

// Delete removes the record with the given id. Deleting an absent id is not
// an error; the call is idempotent.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load()
	if err != nil {
		return err
	}

	idx := indexOf(collection, id)
	if idx < 0 {
		return nil
	}

	next := make([]domain.Product, 0, len(collection)-1)
	next = append(next, collection[:idx]...)
	next = append(next, collection[idx+1:]...)

	if err := s.backend.Save(next); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Filter is a pure projection over a collection: TabAll is the identity,
// the other tabs keep matching records in their original relative order.
func Filter(collection []domain.Product, tab Tab) []domain.Product {
	if tab == TabAll {
		return collection
	}
	want := tab == TabPublished
	out := make([]domain.Product, 0, len(collection))
	for _, p := range collection {
		if p.Published == want {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(collection []domain.Product, id int64) int {
	for i := range collection {
		if collection[i].ID == id {
			return i
		}
	}
	return -1
}

func validateDraft(draft domain.ProductDraft) error {
	var missing []string
	if strings.TrimSpace(draft.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if !domain.ValidProductType(draft.ProductType) {
		missing = append(missing, "productType")
	}
	if draft.QuantityStock == nil {
		missing = append(missing, "quantityStock")
	}
	if draft.Mrp == nil {
		missing = append(missing, "mrp")
	}
	if draft.SellingPrice == nil {
		missing = append(missing, "sellingPrice")
	}
	if strings.TrimSpace(draft.BrandName) == "" {
		missing = append(missing, "brandName")
	}
	if e := draft.ExchangeEligibility; e != "" && e != domain.ExchangeYes && e != domain.ExchangeNo {
		missing = append(missing, "exchangeEligibility")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func productFromDraft(draft domain.ProductDraft) domain.Product {
	p := domain.Product{
		ProductName:         strings.TrimSpace(draft.ProductName),
		ProductType:         draft.ProductType,
		QuantityStock:       *draft.QuantityStock,
		Mrp:                 *draft.Mrp,
		SellingPrice:        *draft.SellingPrice,
		BrandName:           strings.TrimSpace(draft.BrandName),
		ProductImage:        draft.ProductImage,
		ImageCount:          draft.ImageCount,
		ExchangeEligibility: draft.ExchangeEligibility,
	}
	if p.ImageCount <= 0 {
		p.ImageCount = 1
	}
	if p.ExchangeEligibility == "" {
		p.ExchangeEligibility = domain.ExchangeYes
	}
	return p
}
