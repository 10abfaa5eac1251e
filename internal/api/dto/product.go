package dto

import (
	"github.com/flexprice/proposals/internal/domain/product"
	"github.com/flexprice/proposals/internal/validator"
)

type ProductResponse struct {
	*product.Product
}

type SearchProductsRequest struct {
	Query string `form:"q" validate:"required"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (r *SearchProductsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SearchProductsResponse struct {
	Items []*ProductResponse `json:"items"`
}
