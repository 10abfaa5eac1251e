package invoice

import (
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	daysInMonth = decimal.NewFromInt(types.DAYS_IN_MONTH)
	daysInYear  = decimal.NewFromInt(types.DAYS_IN_YEAR)
)

// ComputeTotals aggregates line items into one-time and per-cycle totals
// and a blended daily, monthly and yearly average of the recurring rows.
//
// The monthly and yearly averages are accumulated per row as
// subtotal*30/days and subtotal*365/days rather than derived from the
// rounded daily cost, so a monthly row averages to exactly its amount.
// Rows with an unknown period are recorded in RecurringTotals but skipped
// for the averages. Nil items are ignored.
func ComputeTotals(items []*lineitem.LineItem) *Totals {
	totals := emptyTotals()

	for _, item := range items {
		if item == nil {
			continue
		}

		subtotal := item.Subtotal()
		class := item.Classify()
		row := RowResult{
			LineItemID: item.ID,
			Type:       item.Type,
			Name:       item.Name(),
			Subtotal:   subtotal,
			Recurring:  class.Recurring,
		}

		if !class.Recurring {
			totals.OneTimeTotal = totals.OneTimeTotal.Add(subtotal)
			totals.Rows = append(totals.Rows, row)
			continue
		}

		key := CycleKey{Interval: class.Interval, Period: class.Period}
		row.Cycle = &key
		if start := item.StartDate(); start != nil {
			if next, err := types.NextBillingDate(*start, key.Interval, key.Period); err == nil {
				row.RenewsOn = &next
			}
		}
		totals.Rows = append(totals.Rows, row)

		cycle, ok := totals.RecurringTotals[key]
		if !ok {
			cycle = &CycleTotal{Total: decimal.Zero, Interval: key.Interval, Period: key.Period}
			totals.RecurringTotals[key] = cycle
		}
		cycle.Total = cycle.Total.Add(subtotal)

		d := key.Days()
		if !d.IsPositive() {
			continue
		}
		totals.AverageDailyCost = totals.AverageDailyCost.Add(subtotal.Div(d))
		totals.AverageMonthlyTotal = totals.AverageMonthlyTotal.Add(subtotal.Mul(daysInMonth).Div(d))
		totals.AverageYearlyTotal = totals.AverageYearlyTotal.Add(subtotal.Mul(daysInYear).Div(d))
	}

	totals.RequiresStartDate = RequiresStartDateColumn(items)
	return totals
}

// RequiresStartDateColumn reports whether any row needs a start date input:
// a product sold as a subscription, or any recurring fee.
func RequiresStartDateColumn(items []*lineitem.LineItem) bool {
	return lo.SomeBy(items, func(item *lineitem.LineItem) bool {
		if item == nil {
			return false
		}
		switch item.Type {
		case types.LineItemTypeRecurringFee:
			return true
		case types.LineItemTypeProduct:
			return item.IsRecurring()
		default:
			return false
		}
	})
}
