package invoice

import (
	"fmt"
	"sort"
	"time"

	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
)

// CycleKey identifies a billing cycle. Rows share a cycle only when
// both the interval and the period match.
type CycleKey struct {
	Interval int
	Period   types.BillingPeriod
}

// String returns the persisted form of the key ex 1_month
func (k CycleKey) String() string {
	return fmt.Sprintf("%d_%s", k.Interval, k.Period)
}

// Days returns the normalized length of one cycle, 0 for unknown periods
func (k CycleKey) Days() decimal.Decimal {
	return decimal.NewFromInt(int64(k.Period.Days())).Mul(decimal.NewFromInt(int64(k.Interval)))
}

// Label returns the display suffix for the cycle ex /month, /2 months
func (k CycleKey) Label() string {
	return FormatCycleLabel(k.Interval, k.Period)
}

// CycleTotal accumulates every recurring row billed on one cycle
type CycleTotal struct {
	Total    decimal.Decimal
	Interval int
	Period   types.BillingPeriod
}

func (c *CycleTotal) Key() CycleKey {
	return CycleKey{Interval: c.Interval, Period: c.Period}
}

type RecurringTotals map[CycleKey]*CycleTotal

// Keys returns the cycles shortest first. Unknown periods sort last.
func (r RecurringTotals) Keys() []CycleKey {
	keys := make([]CycleKey, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := keys[i].Days(), keys[j].Days()
		if di.IsPositive() != dj.IsPositive() {
			return di.IsPositive()
		}
		if c := di.Cmp(dj); c != 0 {
			return c < 0
		}
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// RowResult is the computed view of a single line item, in input order
type RowResult struct {
	LineItemID string
	Type       types.LineItemType
	Name       string
	Subtotal   decimal.Decimal
	Recurring  bool
	// Cycle is only set for recurring rows
	Cycle *CycleKey
	// RenewsOn is the start date advanced by one cycle when a start date is set
	RenewsOn *time.Time
}

// Totals is the derived state of a list of line items
type Totals struct {
	OneTimeTotal        decimal.Decimal
	RecurringTotals     RecurringTotals
	AverageDailyCost    decimal.Decimal
	AverageMonthlyTotal decimal.Decimal
	AverageYearlyTotal  decimal.Decimal
	RequiresStartDate   bool
	Rows                []RowResult
}

func emptyTotals() *Totals {
	return &Totals{
		OneTimeTotal:        decimal.Zero,
		RecurringTotals:     RecurringTotals{},
		AverageDailyCost:    decimal.Zero,
		AverageMonthlyTotal: decimal.Zero,
		AverageYearlyTotal:  decimal.Zero,
		Rows:                []RowResult{},
	}
}
