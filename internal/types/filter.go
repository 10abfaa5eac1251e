package types

import (
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Order  *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
		Order:  lo.ToPtr(OrderDesc),
	}
}

// GetLimit returns the limit value or default if not set
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return FILTER_DEFAULT_LIMIT
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// GetOrder returns the order value or default if not set
func (f QueryFilter) GetOrder() string {
	if f.Order == nil {
		return OrderDesc
	}
	return *f.Order
}

// Validate validates the filter fields
func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("limit must be between 1 and 1000").
			WithHint("Please provide a limit between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non-negative").
			WithHint("Offset must be non-negative").
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != OrderAsc && *f.Order != OrderDesc {
		return ierr.NewError("order must be either 'asc' or 'desc'").
			WithHint("Order must be either 'asc' or 'desc'").
			Mark(ierr.ErrValidation)
	}
	return nil
}
