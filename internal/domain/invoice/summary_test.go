package invoice

import (
	"testing"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary(t *testing.T) {
	totals := ComputeTotals([]*lineitem.LineItem{
		lineitem.NewProduct(lineitem.Product{Quantity: 2, RegularPrice: dec("50")}),
		recurringFee("30", 1, types.BILLING_PERIOD_MONTH),
		recurringFee("360.5", 1, types.BILLING_PERIOD_YEAR),
	})

	s := NewSummary(totals)

	assert.Equal(t, "100.00", s.OneTimeTotal)
	assert.Equal(t, map[string]SummaryCycle{
		"1_month": {Total: "30.00", Interval: 1, Period: types.BILLING_PERIOD_MONTH},
		"1_year":  {Total: "360.50", Interval: 1, Period: types.BILLING_PERIOD_YEAR},
	}, s.RecurringTotals)

	raw := s.RecurringTotalsJSON()
	assert.JSONEq(t, `{
		"1_month": {"total": "30.00", "interval": 1, "period": "month"},
		"1_year": {"total": "360.50", "interval": 1, "period": "year"}
	}`, raw)

	parsed, err := ParseRecurringTotals(raw)
	require.NoError(t, err)
	assert.Equal(t, s.RecurringTotals, parsed)
}

func TestSummary_Empty(t *testing.T) {
	s := NewSummary(ComputeTotals(nil))
	assert.Equal(t, "0.00", s.OneTimeTotal)
	assert.Equal(t, "{}", s.RecurringTotalsJSON())

	parsed, err := ParseRecurringTotals("")
	require.NoError(t, err)
	assert.Empty(t, parsed)

	_, err = ParseRecurringTotals("not json")
	assert.Error(t, err)
}
