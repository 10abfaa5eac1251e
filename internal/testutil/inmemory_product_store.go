package testutil

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/flexprice/proposals/internal/domain/product"
	ierr "github.com/flexprice/proposals/internal/errors"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
	gets atomic.Int64
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

// Add seeds the catalog
func (s *InMemoryProductStore) Add(ctx context.Context, p *product.Product) error {
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	s.gets.Add(1)
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("product not found").
			WithHintf("Product %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryProductStore) Search(ctx context.Context, query string, limit int) ([]*product.Product, error) {
	q := strings.ToLower(query)
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *product.Product, _ interface{}) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q)
	}, func(i, j *product.Product) bool {
		return i.Name < j.Name
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetCalls returns how many times Get reached the store
func (s *InMemoryProductStore) GetCalls() int64 {
	return s.gets.Load()
}
