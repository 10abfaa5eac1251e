package dto

import (
	"github.com/flexprice/proposals/internal/domain/lineitem"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
	"github.com/flexprice/proposals/internal/validator"
)

// CreateLineItemRequest is a single form row. Numeric fields may be sent as
// strings or numbers and are coerced, malformed numbers become zero.
type CreateLineItemRequest struct {
	lineitem.Raw
}

func (r *CreateLineItemRequest) Validate() error {
	return validateRaw(r.Raw)
}

// ToLineItem builds the line item, Validate must have passed
func (r *CreateLineItemRequest) ToLineItem() *lineitem.LineItem {
	return r.Raw.ToLineItem()
}

// UpdateLineItemRequest replaces a row in place, keeping its id
type UpdateLineItemRequest struct {
	lineitem.Raw
}

func (r *UpdateLineItemRequest) Validate() error {
	return validateRaw(r.Raw)
}

func (r *UpdateLineItemRequest) ToLineItem(lineItemID string) *lineitem.LineItem {
	li := r.Raw.ToLineItem()
	if li != nil {
		li.ID = lineItemID
	}
	return li
}

// validateRaw checks the tag and, when given, the billing period.
// Amounts are never rejected.
func validateRaw(raw lineitem.Raw) error {
	if err := validator.ValidateRequest(raw); err != nil {
		return err
	}
	if err := types.LineItemType(raw.Type).Validate(); err != nil {
		return err
	}
	if raw.BillingPeriod != "" {
		if err := types.NormalizeBillingPeriod(raw.BillingPeriod).Validate(); err != nil {
			return err
		}
	}
	if raw.StartDate != "" && lineitem.ParseDate(raw.StartDate) == nil {
		return ierr.NewError("invalid start date").
			WithHint("Start date must be formatted as YYYY-MM-DD").
			WithReportableDetails(map[string]any{
				"start_date": raw.StartDate,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateRawList(rows []lineitem.Raw) error {
	for _, raw := range rows {
		if err := validateRaw(raw); err != nil {
			return err
		}
	}
	return nil
}
