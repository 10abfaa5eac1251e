package lineitem

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/flexprice/proposals/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Numeric input comes straight from a form. Anything that does not parse,
// parses to a negative number, or is out of range is treated as zero and
// never reported.

const (
	// maxAmountExponent bounds the decimal exponent either way, "1e40000000"
	// would otherwise expand to millions of digits on the first Add.
	maxAmountExponent = 18
	maxAmountDigits   = 30
	maxCount          = math.MaxInt32
)

var maxCountDecimal = decimal.NewFromInt(maxCount)

// ParseAmount coerces a money string to a non negative decimal
func ParseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero
	}
	if d.NumDigits() > maxAmountDigits {
		return decimal.Zero
	}
	return d
}

// ParseQuantity coerces a count to an int in [0, MaxInt32], fractions are
// truncated
func ParseQuantity(raw string) int {
	d := ParseAmount(raw)
	if d.GreaterThan(maxCountDecimal) {
		return 0
	}
	return int(d.IntPart())
}

// ParseInterval coerces a billing interval, zero means missing
func ParseInterval(raw string) int {
	return ParseQuantity(raw)
}

var truthy = []string{"1", "true", "yes", "on", "y"}

// ParseFlag reads checkbox style booleans such as "yes" or "on"
func ParseFlag(raw string) bool {
	return lo.Contains(truthy, strings.ToLower(strings.TrimSpace(raw)))
}

// ParseDate accepts a YYYY-MM-DD date and returns nil for anything else
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Value is a form field. It unmarshals from a JSON string, number or
// boolean so clients may send either "2" or 2.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value(s)
		return nil
	}
	// numbers and booleans are kept verbatim
	*v = Value(strings.TrimSpace(string(data)))
	return nil
}

func (v Value) String() string {
	return string(v)
}

// Raw is a line item as typed into a form
type Raw struct {
	Type            string `json:"type" validate:"required"`
	ProductID       string `json:"product_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Quantity        Value  `json:"quantity,omitempty"`
	RegularPrice    Value  `json:"regular_price,omitempty"`
	SalePrice       Value  `json:"sale_price,omitempty"`
	IsSubscription  Value  `json:"is_subscription,omitempty"`
	BillingInterval Value  `json:"billing_interval,omitempty"`
	BillingPeriod   string `json:"billing_period,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	Amount          Value  `json:"amount,omitempty"`
	SelectedMethod  string `json:"selected_method,omitempty"`
}

// ToLineItem builds a tagged line item from raw input.
// It returns nil when the type tag is unknown.
func (r Raw) ToLineItem() *LineItem {
	switch types.LineItemType(strings.TrimSpace(r.Type)) {
	case types.LineItemTypeProduct:
		return NewProduct(Product{
			ProductID:       r.ProductID,
			Name:            r.Name,
			Quantity:        ParseQuantity(r.Quantity.String()),
			RegularPrice:    ParseAmount(r.RegularPrice.String()),
			SalePrice:       ParseAmount(r.SalePrice.String()),
			IsSubscription:  ParseFlag(r.IsSubscription.String()),
			BillingInterval: ParseInterval(r.BillingInterval.String()),
			BillingPeriod:   types.NormalizeBillingPeriod(r.BillingPeriod),
			StartDate:       ParseDate(r.StartDate),
		})
	case types.LineItemTypeOneTimeFee:
		return NewOneTimeFee(r.Name, ParseAmount(r.Amount.String()))
	case types.LineItemTypeRecurringFee:
		return NewRecurringFee(RecurringFee{
			Name:            r.Name,
			Amount:          ParseAmount(r.Amount.String()),
			BillingInterval: ParseInterval(r.BillingInterval.String()),
			BillingPeriod:   types.NormalizeBillingPeriod(r.BillingPeriod),
			StartDate:       ParseDate(r.StartDate),
		})
	case types.LineItemTypeShippingFee:
		return NewShippingFee(ParseAmount(r.Amount.String()), r.SelectedMethod)
	default:
		return nil
	}
}

// FromRaw converts a batch of raw rows, dropping rows with an unknown type
func FromRaw(rows []Raw) []*LineItem {
	return lo.FilterMap(rows, func(r Raw, _ int) (*LineItem, bool) {
		li := r.ToLineItem()
		return li, li != nil
	})
}
