package proposal

import (
	"testing"
	"time"

	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	p := &Proposal{ID: "prop_1", Number: "PRO-1", ProposalStatus: types.ProposalStatusDraft}
	assert.NoError(t, p.EnsureEditable())

	items := []*lineitem.LineItem{
		lineitem.NewOneTimeFee("Setup", decimal.NewFromInt(100)),
		lineitem.NewRecurringFee(lineitem.RecurringFee{Amount: decimal.NewFromInt(30)}),
	}
	now := time.Now().UTC()
	p.Submit(items, invoice.NewSummary(invoice.ComputeTotals(items)), now)

	assert.Equal(t, types.ProposalStatusSubmitted, p.ProposalStatus)
	assert.Equal(t, "100.00", p.OneTimeTotal)
	assert.JSONEq(t, `{"1_month":{"total":"30.00","interval":1,"period":"month"}}`, p.RecurringTotals)
	require.NotNil(t, p.SubmittedAt)
	assert.Len(t, p.LineItems, 2)

	err := p.EnsureEditable()
	assert.True(t, ierr.IsInvalidOperation(err))
}
