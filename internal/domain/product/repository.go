package product

import (
	"context"
)

// Repository is a read only product catalog
type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, query string, limit int) ([]*Product, error)
}
