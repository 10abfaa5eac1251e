package types

import (
	"strings"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the unit a recurring charge repeats on ex day, week, month, year
type BillingPeriod string

const (
	BILLING_PERIOD_DAY   BillingPeriod = "day"
	BILLING_PERIOD_WEEK  BillingPeriod = "week"
	BILLING_PERIOD_MONTH BillingPeriod = "month"
	BILLING_PERIOD_YEAR  BillingPeriod = "year"

	// DAYS_IN_WEEK is the fixed length of a week used for averaging
	DAYS_IN_WEEK = 7
	// DAYS_IN_MONTH is intentionally fixed at 30 and not calendar accurate.
	// Averages across mixed cycles are normalized on it.
	DAYS_IN_MONTH = 30
	// DAYS_IN_YEAR ignores leap years for the same reason
	DAYS_IN_YEAR = 365

	// DEFAULT_BILLING_INTERVAL is used when a recurring fee has no interval
	DEFAULT_BILLING_INTERVAL = 1
	// DEFAULT_BILLING_PERIOD is used when a recurring fee has no period
	DEFAULT_BILLING_PERIOD = BILLING_PERIOD_MONTH
)

var billingPeriodDays = map[BillingPeriod]int{
	BILLING_PERIOD_DAY:   1,
	BILLING_PERIOD_WEEK:  DAYS_IN_WEEK,
	BILLING_PERIOD_MONTH: DAYS_IN_MONTH,
	BILLING_PERIOD_YEAR:  DAYS_IN_YEAR,
}

func (p BillingPeriod) String() string {
	return string(p)
}

// Days returns the normalized number of days in a single period.
// Unknown periods return 0.
func (p BillingPeriod) Days() int {
	return billingPeriodDays[p]
}

// IsKnown reports whether the period has a day count
func (p BillingPeriod) IsKnown() bool {
	return p.Days() > 0
}

// Plural returns the period name for counts other than one ex "months"
func (p BillingPeriod) Plural() string {
	if p == "" {
		return ""
	}
	return string(p) + "s"
}

func (p BillingPeriod) Validate() error {
	allowed := []BillingPeriod{
		BILLING_PERIOD_DAY,
		BILLING_PERIOD_WEEK,
		BILLING_PERIOD_MONTH,
		BILLING_PERIOD_YEAR,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Please provide a valid billing period").
			WithReportableDetails(map[string]any{
				"allowed":        allowed,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// NormalizeBillingPeriod lowercases and trims raw input.
// The value is kept even when it is not a known period.
func NormalizeBillingPeriod(raw string) BillingPeriod {
	return BillingPeriod(strings.ToLower(strings.TrimSpace(raw)))
}
