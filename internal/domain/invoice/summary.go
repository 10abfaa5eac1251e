package invoice

import (
	"encoding/json"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
)

// SummaryCycle is the persisted form of a CycleTotal
type SummaryCycle struct {
	Total    string              `json:"total"`
	Interval int                 `json:"interval"`
	Period   types.BillingPeriod `json:"period"`
}

// Summary is what gets attached to a proposal on submit.
// Amounts are fixed two decimal strings.
type Summary struct {
	OneTimeTotal    string                  `json:"one_time_total"`
	RecurringTotals map[string]SummaryCycle `json:"recurring_totals"`
}

func NewSummary(t *Totals) *Summary {
	s := &Summary{
		OneTimeTotal:    t.OneTimeTotal.StringFixed(2),
		RecurringTotals: make(map[string]SummaryCycle, len(t.RecurringTotals)),
	}
	for key, cycle := range t.RecurringTotals {
		s.RecurringTotals[key.String()] = SummaryCycle{
			Total:    cycle.Total.StringFixed(2),
			Interval: cycle.Interval,
			Period:   cycle.Period,
		}
	}
	return s
}

// RecurringTotalsJSON returns recurring totals as the opaque string stored
// on a proposal. Keys are sorted by encoding/json.
func (s *Summary) RecurringTotalsJSON() string {
	b, err := json.Marshal(s.RecurringTotals)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ParseRecurringTotals reads a string produced by RecurringTotalsJSON
func ParseRecurringTotals(raw string) (map[string]SummaryCycle, error) {
	out := make(map[string]SummaryCycle)
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored recurring totals are not valid").
			Mark(ierr.ErrSystem)
	}
	return out, nil
}
