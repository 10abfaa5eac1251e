package proposal

import (
	"time"

	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
)

// Proposal is a draft quote sent to a customer. Its line items are edited
// in a session and only persisted together with the totals on submit.
type Proposal struct {
	// ID is the unique identifier ex prop_01HQ3Z5V8W7X6Y5Z4A3B2C1D0E
	ID string `db:"id" json:"id"`

	// Number is the short human readable reference ex PRO-X1Y2Z3A4
	Number string `db:"number" json:"number"`

	Title        string `db:"title" json:"title"`
	CustomerName string `db:"customer_name" json:"customer_name"`

	// Currency 3 digit ISO currency code in lowercase ex usd, eur, gbp
	Currency string `db:"currency" json:"currency"`

	ProposalStatus types.ProposalStatus `db:"proposal_status" json:"proposal_status"`

	// LineItems is the last persisted list of line items
	LineItems lineitem.JSONBLineItems `db:"line_items" json:"line_items"`

	// OneTimeTotal is a fixed two decimal string set on submit
	OneTimeTotal string `db:"one_time_total" json:"one_time_total"`

	// RecurringTotals is the opaque recurring totals string set on submit
	RecurringTotals string `db:"recurring_totals" json:"recurring_totals"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`

	types.BaseModel
}

// IsEditable reports whether line items may still change
func (p *Proposal) IsEditable() bool {
	return p.ProposalStatus == types.ProposalStatusDraft
}

// EnsureEditable returns an invalid operation error for submitted proposals
func (p *Proposal) EnsureEditable() error {
	if p.IsEditable() {
		return nil
	}
	return ierr.NewError("proposal is not editable").
		WithHintf("Proposal %s has already been submitted", p.Number).
		WithReportableDetails(map[string]any{
			"proposal_id":     p.ID,
			"proposal_status": p.ProposalStatus,
		}).
		Mark(ierr.ErrInvalidOperation)
}

// Submit stores the summary and line items and freezes the proposal
func (p *Proposal) Submit(items []*lineitem.LineItem, summary *invoice.Summary, at time.Time) {
	p.LineItems = items
	p.OneTimeTotal = summary.OneTimeTotal
	p.RecurringTotals = summary.RecurringTotalsJSON()
	p.ProposalStatus = types.ProposalStatusSubmitted
	p.SubmittedAt = &at
	p.UpdatedAt = at
}
