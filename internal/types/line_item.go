package types

import (
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

// LineItemType tags the variant of a proposal line item
type LineItemType string

const (
	LineItemTypeProduct      LineItemType = "product"
	LineItemTypeOneTimeFee   LineItemType = "one_time_fee"
	LineItemTypeRecurringFee LineItemType = "recurring_fee"
	LineItemTypeShippingFee  LineItemType = "shipping_fee"

	// SHIPPING_METHOD_CUSTOM marks a manually entered shipping amount
	SHIPPING_METHOD_CUSTOM = "custom"
)

func (t LineItemType) String() string {
	return string(t)
}

func (t LineItemType) Validate() error {
	allowed := []LineItemType{
		LineItemTypeProduct,
		LineItemTypeOneTimeFee,
		LineItemTypeRecurringFee,
		LineItemTypeShippingFee,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid line item type").
			WithHint("Please provide a valid line item type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
