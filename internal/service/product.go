package service

import (
	"context"
	"strings"

	"github.com/flexprice/proposals/internal/api/dto"
	"github.com/flexprice/proposals/internal/cache"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/product"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

const defaultSearchLimit = 20

// ProductService looks up the catalog and turns products into line items
type ProductService interface {
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error)
	ResolveLineItem(ctx context.Context, item dto.AddProductItem) (*lineitem.LineItem, error)
}

type productService struct {
	ServiceParams
}

func NewProductService(params ServiceParams) ProductService {
	return &productService{
		ServiceParams: params,
	}
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{Product: p}, nil
}

func (s *productService) SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}

	query := strings.TrimSpace(req.Query)
	key := cache.GenerateKey(cache.PrefixProductSearch, strings.ToLower(query), req.Limit)

	var products []*product.Product
	if cached, ok := s.Cache.Get(ctx, key); ok {
		products = cached.([]*product.Product)
	} else {
		var err error
		products, err = s.ProductRepo.Search(ctx, query, req.Limit)
		if err != nil {
			return nil, err
		}
		s.Cache.Set(ctx, key, products, 0)
	}

	return &dto.SearchProductsResponse{
		Items: lo.Map(products, func(p *product.Product, _ int) *dto.ProductResponse {
			return &dto.ProductResponse{Product: p}
		}),
	}, nil
}

// ResolveLineItem fetches the product and builds a product row from it.
// Subscription products take the requested start date.
func (s *productService) ResolveLineItem(ctx context.Context, item dto.AddProductItem) (*lineitem.LineItem, error) {
	p, err := s.getProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}

	li := p.ToLineItem(item.Quantity)
	if item.StartDate != "" {
		start := lineitem.ParseDate(item.StartDate)
		if start == nil {
			return nil, ierr.NewError("invalid start date").
				WithHint("Start date must be formatted as YYYY-MM-DD").
				WithReportableDetails(map[string]any{
					"product_id": item.ProductID,
					"start_date": item.StartDate,
				}).
				Mark(ierr.ErrValidation)
		}
		if li.Product.IsSubscription {
			li.Product.StartDate = start
		}
	}
	return li, nil
}

func (s *productService) getProduct(ctx context.Context, id string) (*product.Product, error) {
	if id == "" {
		return nil, ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}

	key := cache.GenerateKey(cache.PrefixProduct, id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		return cached.(*product.Product), nil
	}

	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, p, 0)
	return p, nil
}
