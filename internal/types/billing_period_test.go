package types

import (
	"testing"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestBillingPeriod_Days(t *testing.T) {
	tests := []struct {
		period BillingPeriod
		want   int
	}{
		{BILLING_PERIOD_DAY, 1},
		{BILLING_PERIOD_WEEK, 7},
		{BILLING_PERIOD_MONTH, 30},
		{BILLING_PERIOD_YEAR, 365},
		{"fortnight", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Days())
			assert.Equal(t, tt.want > 0, tt.period.IsKnown())
		})
	}
}

func TestBillingPeriod_Validate(t *testing.T) {
	assert.NoError(t, BILLING_PERIOD_WEEK.Validate())

	err := BillingPeriod("MONTHLY").Validate()
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestNormalizeBillingPeriod(t *testing.T) {
	assert.Equal(t, BILLING_PERIOD_MONTH, NormalizeBillingPeriod("  Month "))
	assert.Equal(t, BillingPeriod("fortnight"), NormalizeBillingPeriod("FORTNIGHT"))
	assert.Equal(t, "weeks", BILLING_PERIOD_WEEK.Plural())
}
