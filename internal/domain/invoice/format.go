package invoice

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
)

// FormatCycleLabel returns the suffix shown after a recurring amount,
// "/month" for a single period and "/2 months" otherwise.
func FormatCycleLabel(interval int, period types.BillingPeriod) string {
	if interval == 1 {
		return "/" + period.String()
	}
	return fmt.Sprintf("/%d %s", interval, period.Plural())
}

// Formatter renders amounts for display using a caller supplied
// currency convention.
type Formatter struct {
	Symbol             string
	SymbolPosition     types.SymbolPosition
	ThousandsSeparator string
	DecimalSeparator   string
	Precision          int
}

// DefaultFormatter renders US dollars ex $1,234.50
func DefaultFormatter() *Formatter {
	return &Formatter{
		Symbol:             "$",
		SymbolPosition:     types.SymbolPositionLeft,
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
		Precision:          2,
	}
}

// separators that humanize treats as digit placeholders or a sign
func usableSeparator(sep string) bool {
	r := []rune(sep)
	return len(r) == 1 && r[0] != '#' && r[0] != '0' && r[0] != '+'
}

// pattern builds a humanize.FormatFloat pattern ex "#,###.##"
func (f *Formatter) pattern() string {
	decimalSep := f.DecimalSeparator
	if !usableSeparator(decimalSep) {
		decimalSep = "."
	}
	var b strings.Builder
	b.WriteString("#")
	if usableSeparator(f.ThousandsSeparator) && f.ThousandsSeparator != decimalSep {
		b.WriteString(f.ThousandsSeparator)
	}
	b.WriteString("###")
	// the decimal separator is always written, with no digits after it
	// humanize reads a lone separator as the thousands one otherwise
	b.WriteString(decimalSep)
	b.WriteString(strings.Repeat("#", f.precision()))
	return b.String()
}

// humanize supports at most 9 fraction digits
func (f *Formatter) precision() int {
	return min(max(f.Precision, 0), 9)
}

// FormatNumber renders an amount without the currency symbol
func (f *Formatter) FormatNumber(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.precision()))
	return humanize.FormatFloat(f.pattern(), rounded.InexactFloat64())
}

// Format renders an amount with the currency symbol
func (f *Formatter) Format(amount decimal.Decimal) string {
	number := f.FormatNumber(amount)
	if f.SymbolPosition == types.SymbolPositionRight {
		return number + f.Symbol
	}
	return f.Symbol + number
}

// FormatRecurring renders a recurring amount followed by its cycle label
func (f *Formatter) FormatRecurring(amount decimal.Decimal, key CycleKey) string {
	return f.Format(amount) + key.Label()
}

// RowDisplay is the display string of one row
type RowDisplay struct {
	LineItemID string `json:"line_item_id"`
	Subtotal   string `json:"subtotal"`
}

// CycleDisplay is the display string of one recurring cycle
type CycleDisplay struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Total string `json:"total"`
}

// Display holds every human readable string derived from Totals
type Display struct {
	Rows                []RowDisplay   `json:"rows"`
	OneTimeTotal        string         `json:"one_time_total"`
	RecurringTotals     []CycleDisplay `json:"recurring_totals"`
	AverageMonthlyTotal string         `json:"average_monthly_total"`
	AverageYearlyTotal  string         `json:"average_yearly_total"`
}

// FormatTotals renders per row and aggregate strings. Recurring rows and
// cycles carry their cycle label.
func (f *Formatter) FormatTotals(t *Totals) *Display {
	d := &Display{
		Rows:                make([]RowDisplay, 0, len(t.Rows)),
		OneTimeTotal:        f.Format(t.OneTimeTotal),
		RecurringTotals:     make([]CycleDisplay, 0, len(t.RecurringTotals)),
		AverageMonthlyTotal: f.Format(t.AverageMonthlyTotal) + FormatCycleLabel(1, types.BILLING_PERIOD_MONTH),
		AverageYearlyTotal:  f.Format(t.AverageYearlyTotal) + FormatCycleLabel(1, types.BILLING_PERIOD_YEAR),
	}

	for _, row := range t.Rows {
		s := f.Format(row.Subtotal)
		if row.Recurring && row.Cycle != nil {
			s = f.FormatRecurring(row.Subtotal, *row.Cycle)
		}
		d.Rows = append(d.Rows, RowDisplay{LineItemID: row.LineItemID, Subtotal: s})
	}

	for _, key := range t.RecurringTotals.Keys() {
		cycle := t.RecurringTotals[key]
		d.RecurringTotals = append(d.RecurringTotals, CycleDisplay{
			Key:   key.String(),
			Label: key.Label(),
			Total: f.FormatRecurring(cycle.Total, key),
		})
	}

	return d
}
