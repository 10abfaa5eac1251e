package dto

import (
	"time"

	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/flexprice/proposals/internal/validator"
)

// CalculateTotalsRequest computes totals for line items that are not
// attached to a proposal
type CalculateTotalsRequest struct {
	LineItems []lineitem.Raw `json:"line_items" validate:"dive"`
	// Currency only selects the display symbol ex usd, eur
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func (r *CalculateTotalsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateRawList(r.LineItems)
}

func (r *CalculateTotalsRequest) ToLineItems() []*lineitem.LineItem {
	return lineitem.FromRaw(r.LineItems)
}

type CycleTotalResponse struct {
	Total    string              `json:"total"`
	Interval int                 `json:"interval"`
	Period   types.BillingPeriod `json:"period"`
	Label    string              `json:"label"`
}

type RowResponse struct {
	LineItemID string             `json:"line_item_id"`
	Type       types.LineItemType `json:"type"`
	Name       string             `json:"name"`
	Subtotal   string             `json:"subtotal"`
	Recurring  bool               `json:"recurring"`
	// CycleKey is set for recurring rows ex 1_month
	CycleKey string     `json:"cycle_key,omitempty"`
	RenewsOn *time.Time `json:"renews_on,omitempty"`
}

// TotalsResponse carries amounts as fixed two decimal strings and the
// display strings for the configured currency convention
type TotalsResponse struct {
	OneTimeTotal            string                        `json:"one_time_total"`
	RecurringTotals         map[string]CycleTotalResponse `json:"recurring_totals"`
	AverageDailyCost        string                        `json:"average_daily_cost"`
	AverageMonthlyTotal     string                        `json:"average_monthly_total"`
	AverageYearlyTotal      string                        `json:"average_yearly_total"`
	RequiresStartDateColumn bool                          `json:"requires_start_date_column"`
	Rows                    []RowResponse                 `json:"rows"`
	Display                 *invoice.Display              `json:"display"`
}

func NewTotalsResponse(t *invoice.Totals, f *invoice.Formatter) *TotalsResponse {
	resp := &TotalsResponse{
		OneTimeTotal:            t.OneTimeTotal.StringFixed(2),
		RecurringTotals:         make(map[string]CycleTotalResponse, len(t.RecurringTotals)),
		AverageDailyCost:        t.AverageDailyCost.StringFixed(2),
		AverageMonthlyTotal:     t.AverageMonthlyTotal.StringFixed(2),
		AverageYearlyTotal:      t.AverageYearlyTotal.StringFixed(2),
		RequiresStartDateColumn: t.RequiresStartDate,
		Rows:                    make([]RowResponse, 0, len(t.Rows)),
		Display:                 f.FormatTotals(t),
	}

	for key, cycle := range t.RecurringTotals {
		resp.RecurringTotals[key.String()] = CycleTotalResponse{
			Total:    cycle.Total.StringFixed(2),
			Interval: cycle.Interval,
			Period:   cycle.Period,
			Label:    key.Label(),
		}
	}

	for _, row := range t.Rows {
		r := RowResponse{
			LineItemID: row.LineItemID,
			Type:       row.Type,
			Name:       row.Name,
			Subtotal:   row.Subtotal.StringFixed(2),
			Recurring:  row.Recurring,
			RenewsOn:   row.RenewsOn,
		}
		if row.Cycle != nil {
			r.CycleKey = row.Cycle.String()
		}
		resp.Rows = append(resp.Rows, r)
	}

	return resp
}
