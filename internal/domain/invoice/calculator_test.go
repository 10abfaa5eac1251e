package invoice

import (
	"testing"
	"time"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func recurringFee(amount string, interval int, period types.BillingPeriod) *lineitem.LineItem {
	return lineitem.NewRecurringFee(lineitem.RecurringFee{
		Name:            "Fee",
		Amount:          dec(amount),
		BillingInterval: interval,
		BillingPeriod:   period,
	})
}

func subscription(qty int, price string, interval int, period types.BillingPeriod) *lineitem.LineItem {
	return lineitem.NewProduct(lineitem.Product{
		Name:            "Plan",
		Quantity:        qty,
		RegularPrice:    dec(price),
		IsSubscription:  true,
		BillingInterval: interval,
		BillingPeriod:   period,
	})
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.True(t, totals.OneTimeTotal.IsZero())
	assert.Empty(t, totals.RecurringTotals)
	assert.True(t, totals.AverageDailyCost.IsZero())
	assert.True(t, totals.AverageMonthlyTotal.IsZero())
	assert.True(t, totals.AverageYearlyTotal.IsZero())
	assert.False(t, totals.RequiresStartDate)
	assert.Empty(t, totals.Rows)
}

func TestComputeTotals_OneTimeOnly(t *testing.T) {
	items := []*lineitem.LineItem{
		lineitem.NewProduct(lineitem.Product{Quantity: 2, RegularPrice: dec("50")}),
		lineitem.NewProduct(lineitem.Product{Quantity: 1, RegularPrice: dec("80"), SalePrice: dec("60.25")}),
		lineitem.NewOneTimeFee("Setup", dec("19.99")),
		lineitem.NewShippingFee(dec("7.50"), types.SHIPPING_METHOD_CUSTOM),
	}

	totals := ComputeTotals(items)

	assert.Empty(t, totals.RecurringTotals)
	assert.True(t, dec("187.74").Equal(totals.OneTimeTotal), "got %s", totals.OneTimeTotal)
	assert.True(t, totals.AverageMonthlyTotal.IsZero())
	require.Len(t, totals.Rows, 4)
	for _, row := range totals.Rows {
		assert.False(t, row.Recurring)
		assert.Nil(t, row.Cycle)
	}
}

func TestComputeTotals_SingleProduct(t *testing.T) {
	totals := ComputeTotals([]*lineitem.LineItem{
		lineitem.NewProduct(lineitem.Product{Quantity: 2, RegularPrice: dec("50")}),
	})

	assert.Equal(t, "100.00", totals.OneTimeTotal.StringFixed(2))
	assert.Empty(t, totals.RecurringTotals)
	assert.True(t, dec("100").Equal(totals.Rows[0].Subtotal))
}

func TestComputeTotals_MonthlyAverageIsExact(t *testing.T) {
	items := []*lineitem.LineItem{
		recurringFee("30", 1, types.BILLING_PERIOD_MONTH),
		subscription(3, "9.99", 1, types.BILLING_PERIOD_MONTH),
		recurringFee("0.01", 1, types.BILLING_PERIOD_MONTH),
	}

	totals := ComputeTotals(items)

	sum := dec("30").Add(dec("29.97")).Add(dec("0.01"))
	assert.True(t, sum.Equal(totals.AverageMonthlyTotal), "got %s", totals.AverageMonthlyTotal)
	assert.True(t, totals.OneTimeTotal.IsZero())
	require.Len(t, totals.RecurringTotals, 1)
	assert.True(t, sum.Equal(totals.RecurringTotals[CycleKey{1, types.BILLING_PERIOD_MONTH}].Total))
}

func TestComputeTotals_YearlyAverage(t *testing.T) {
	items := []*lineitem.LineItem{
		recurringFee("360", 1, types.BILLING_PERIOD_YEAR),
		subscription(1, "1200", 1, types.BILLING_PERIOD_YEAR),
	}

	totals := ComputeTotals(items)

	assert.True(t, dec("1560").Equal(totals.AverageYearlyTotal), "got %s", totals.AverageYearlyTotal)
	// a 30 day month is slightly less than a twelfth of a 365 day year
	monthly := totals.AverageMonthlyTotal.InexactFloat64()
	assert.InDelta(t, 1560.0/12, monthly, 1560.0/12*0.02)
	assert.InDelta(t, 1560.0*30/365, monthly, 1e-9)
}

func TestComputeTotals_MixedCycles(t *testing.T) {
	items := []*lineitem.LineItem{
		recurringFee("30", 1, types.BILLING_PERIOD_MONTH),
		recurringFee("360", 1, types.BILLING_PERIOD_YEAR),
	}

	totals := ComputeTotals(items)

	require.Len(t, totals.RecurringTotals, 2)
	assert.True(t, dec("30").Equal(totals.RecurringTotals[CycleKey{1, types.BILLING_PERIOD_MONTH}].Total))
	assert.True(t, dec("360").Equal(totals.RecurringTotals[CycleKey{1, types.BILLING_PERIOD_YEAR}].Total))
	assert.Equal(t, "59.59", totals.AverageMonthlyTotal.StringFixed(2))
	assert.InDelta(t, 30+(360.0/365)*30, totals.AverageMonthlyTotal.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.0+360.0/365, totals.AverageDailyCost.InexactFloat64(), 1e-9)
}

func TestComputeTotals_CycleGrouping(t *testing.T) {
	items := []*lineitem.LineItem{
		recurringFee("10", 1, types.BILLING_PERIOD_MONTH),
		subscription(1, "15", 1, types.BILLING_PERIOD_MONTH),
		recurringFee("20", 2, types.BILLING_PERIOD_MONTH),
	}

	totals := ComputeTotals(items)

	require.Len(t, totals.RecurringTotals, 2)
	monthly := totals.RecurringTotals[CycleKey{Interval: 1, Period: types.BILLING_PERIOD_MONTH}]
	require.NotNil(t, monthly)
	assert.True(t, dec("25").Equal(monthly.Total))

	bimonthly := totals.RecurringTotals[CycleKey{Interval: 2, Period: types.BILLING_PERIOD_MONTH}]
	require.NotNil(t, bimonthly)
	assert.True(t, dec("20").Equal(bimonthly.Total))
	assert.True(t, dec("35").Equal(totals.AverageMonthlyTotal), "got %s", totals.AverageMonthlyTotal)
}

func TestComputeTotals_UnknownPeriod(t *testing.T) {
	items := []*lineitem.LineItem{
		recurringFee("99.50", 1, types.BillingPeriod("fortnight")),
		recurringFee("30", 1, types.BILLING_PERIOD_MONTH),
	}

	totals := ComputeTotals(items)

	cycle := totals.RecurringTotals[CycleKey{Interval: 1, Period: "fortnight"}]
	require.NotNil(t, cycle)
	assert.True(t, dec("99.50").Equal(cycle.Total))
	assert.True(t, dec("30").Equal(totals.AverageMonthlyTotal), "got %s", totals.AverageMonthlyTotal)
	assert.True(t, dec("1").Equal(totals.AverageDailyCost))
}

func TestComputeTotals_HugeIntervalDoesNotWrap(t *testing.T) {
	// 7905747460161236407 weeks is exactly 1 day modulo 2^64
	totals := ComputeTotals([]*lineitem.LineItem{
		recurringFee("10", 7905747460161236407, types.BILLING_PERIOD_WEEK),
	})

	key := CycleKey{Interval: 7905747460161236407, Period: types.BILLING_PERIOD_WEEK}
	require.NotNil(t, totals.RecurringTotals[key])
	assert.True(t, key.Days().GreaterThan(dec("1e19")))
	assert.Equal(t, "0.00", totals.AverageMonthlyTotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.AverageYearlyTotal.StringFixed(2))
}

func TestComputeTotals_OutOfRangeInputIsZero(t *testing.T) {
	items := lineitem.FromRaw([]lineitem.Raw{
		{Type: "one_time_fee", Amount: "1e40000000"},
		{Type: "one_time_fee", Amount: "0.01"},
		{Type: "product", Quantity: "1e19", RegularPrice: "10"},
	})

	totals := ComputeTotals(items)

	assert.Equal(t, "0.01", totals.OneTimeTotal.StringFixed(2))
	assert.Equal(t, "0.01", NewSummary(totals).OneTimeTotal)
}

func TestComputeTotals_RecurringFeeDefaults(t *testing.T) {
	totals := ComputeTotals([]*lineitem.LineItem{recurringFee("45", 0, "")})

	cycle := totals.RecurringTotals[CycleKey{Interval: 1, Period: types.BILLING_PERIOD_MONTH}]
	require.NotNil(t, cycle)
	assert.True(t, dec("45").Equal(cycle.Total))
	assert.True(t, totals.OneTimeTotal.IsZero())
}

func TestComputeTotals_SubscriptionWithoutCycleIsOneTime(t *testing.T) {
	items := []*lineitem.LineItem{
		subscription(1, "40", 0, types.BILLING_PERIOD_MONTH),
		subscription(1, "60", 1, ""),
	}

	totals := ComputeTotals(items)

	assert.Empty(t, totals.RecurringTotals)
	assert.True(t, dec("100").Equal(totals.OneTimeTotal))
	assert.False(t, totals.RequiresStartDate)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []*lineitem.LineItem{
		lineitem.NewProduct(lineitem.Product{Quantity: 2, RegularPrice: dec("50")}),
		recurringFee("30", 1, types.BILLING_PERIOD_WEEK),
		recurringFee("360", 3, types.BILLING_PERIOD_YEAR),
		nil,
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)

	assert.Equal(t, first, second)
}

func TestComputeTotals_RenewsOn(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	item := lineitem.NewRecurringFee(lineitem.RecurringFee{
		Amount:          dec("10"),
		BillingInterval: 1,
		BillingPeriod:   types.BILLING_PERIOD_MONTH,
		StartDate:       &start,
	})

	totals := ComputeTotals([]*lineitem.LineItem{item})

	require.NotNil(t, totals.Rows[0].RenewsOn)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *totals.Rows[0].RenewsOn)
}

func TestRequiresStartDateColumn(t *testing.T) {
	tests := []struct {
		name  string
		items []*lineitem.LineItem
		want  bool
	}{
		{"empty", nil, false},
		{"one time only", []*lineitem.LineItem{
			lineitem.NewOneTimeFee("Setup", dec("1")),
			lineitem.NewProduct(lineitem.Product{Quantity: 1, RegularPrice: dec("1")}),
		}, false},
		{"subscription product", []*lineitem.LineItem{subscription(1, "1", 1, types.BILLING_PERIOD_MONTH)}, true},
		{"recurring fee", []*lineitem.LineItem{recurringFee("1", 0, "")}, true},
		{"shipping only", []*lineitem.LineItem{lineitem.NewShippingFee(dec("5"), "flat_rate")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresStartDateColumn(tt.items))
		})
	}
}

func TestRecurringTotalsKeys(t *testing.T) {
	totals := ComputeTotals([]*lineitem.LineItem{
		recurringFee("1", 1, types.BILLING_PERIOD_YEAR),
		recurringFee("1", 1, "fortnight"),
		recurringFee("1", 2, types.BILLING_PERIOD_WEEK),
		recurringFee("1", 1, types.BILLING_PERIOD_MONTH),
	})

	keys := totals.RecurringTotals.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	assert.Equal(t, []string{"2_week", "1_month", "1_year", "1_fortnight"}, names)
}
