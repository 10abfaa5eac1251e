package invoice

import (
	"testing"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCycleLabel(t *testing.T) {
	assert.Equal(t, "/month", FormatCycleLabel(1, types.BILLING_PERIOD_MONTH))
	assert.Equal(t, "/2 months", FormatCycleLabel(2, types.BILLING_PERIOD_MONTH))
	assert.Equal(t, "/3 weeks", FormatCycleLabel(3, types.BILLING_PERIOD_WEEK))
	assert.Equal(t, "/year", FormatCycleLabel(1, types.BILLING_PERIOD_YEAR))
}

func TestFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		f      *Formatter
		amount string
		want   string
	}{
		{"default", DefaultFormatter(), "1234.5", "$1,234.50"},
		{"small", DefaultFormatter(), "0", "$0.00"},
		{"rounds half up", DefaultFormatter(), "59.589", "$59.59"},
		{"millions", DefaultFormatter(), "1234567.891", "$1,234,567.89"},
		{
			name: "european",
			f: &Formatter{
				Symbol:             "€",
				SymbolPosition:     types.SymbolPositionRight,
				ThousandsSeparator: ".",
				DecimalSeparator:   ",",
				Precision:          2,
			},
			amount: "1234.5",
			want:   "1.234,50€",
		},
		{
			name: "no thousands separator",
			f: &Formatter{
				Symbol:           "$",
				SymbolPosition:   types.SymbolPositionLeft,
				DecimalSeparator: ".",
				Precision:        2,
			},
			amount: "1234.5",
			want:   "$1234.50",
		},
		{
			name: "zero precision",
			f: &Formatter{
				Symbol:             "¥",
				SymbolPosition:     types.SymbolPositionLeft,
				ThousandsSeparator: ",",
				DecimalSeparator:   ".",
				Precision:          0,
			},
			amount: "1234.4",
			want:   "¥1,234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Format(dec(tt.amount)))
		})
	}
}

func TestFormatter_FormatTotals(t *testing.T) {
	setup := lineitem.NewOneTimeFee("Setup", dec("100"))
	hosting := recurringFee("30", 1, types.BILLING_PERIOD_MONTH)
	support := recurringFee("90", 3, types.BILLING_PERIOD_MONTH)

	totals := ComputeTotals([]*lineitem.LineItem{setup, hosting, support})
	d := DefaultFormatter().FormatTotals(totals)

	require.Len(t, d.Rows, 3)
	assert.Equal(t, RowDisplay{LineItemID: setup.ID, Subtotal: "$100.00"}, d.Rows[0])
	assert.Equal(t, RowDisplay{LineItemID: hosting.ID, Subtotal: "$30.00/month"}, d.Rows[1])
	assert.Equal(t, RowDisplay{LineItemID: support.ID, Subtotal: "$90.00/3 months"}, d.Rows[2])

	assert.Equal(t, "$100.00", d.OneTimeTotal)
	assert.Equal(t, []CycleDisplay{
		{Key: "1_month", Label: "/month", Total: "$30.00/month"},
		{Key: "3_month", Label: "/3 months", Total: "$90.00/3 months"},
	}, d.RecurringTotals)
	assert.Equal(t, "$60.00/month", d.AverageMonthlyTotal)
	assert.Equal(t, "$730.00/year", d.AverageYearlyTotal)
}
