package types

import (
	"time"

	ierr "github.com/flexprice/proposals/internal/errors"
)

// NextBillingDate returns the first renewal after start for a cycle of
// interval x period. Days and weeks are added as calendar days, months and
// years are clamped to the last day of the target month so a subscription
// starting Jan 31 renews on Feb 28/29.
func NextBillingDate(start time.Time, interval int, period BillingPeriod) (time.Time, error) {
	if interval <= 0 {
		return start, ierr.NewError("billing interval must be a positive integer").
			WithHintf("Billing interval must be a positive integer, got %d", interval).
			Mark(ierr.ErrValidation)
	}

	switch period {
	case BILLING_PERIOD_DAY:
		return start.AddDate(0, 0, interval), nil
	case BILLING_PERIOD_WEEK:
		return start.AddDate(0, 0, DAYS_IN_WEEK*interval), nil
	case BILLING_PERIOD_MONTH:
		return AddClampedMonths(start, interval), nil
	case BILLING_PERIOD_YEAR:
		return AddClampedMonths(start, 12*interval), nil
	default:
		return start, ierr.NewError("invalid billing period").
			WithHintf("Cannot compute a renewal date for billing period %q", period).
			Mark(ierr.ErrValidation)
	}
}

// AddClampedMonths adds months to t keeping the day of month when it exists
// in the target month and clamping to the month end otherwise.
func AddClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	total := int(m) - 1 + months
	newY := y + total/12
	newM := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		newY--
		newM = time.Month(total%12 + 13)
	}

	lastDay := time.Date(newY, newM+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
}
