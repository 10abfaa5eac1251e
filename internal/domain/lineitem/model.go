package lineitem

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem is one row of a proposal invoice.
// Type selects which one of the variant pointers is set.
type LineItem struct {
	// ID identifies the row inside its proposal ex line_01HQ3Z5V8W7X6Y5Z4A3B2C1D0E
	ID string `json:"id"`

	Type types.LineItemType `json:"type"`

	Product      *Product      `json:"product,omitempty"`
	OneTimeFee   *OneTimeFee   `json:"one_time_fee,omitempty"`
	RecurringFee *RecurringFee `json:"recurring_fee,omitempty"`
	ShippingFee  *ShippingFee  `json:"shipping_fee,omitempty"`
}

// Product is a catalog product row. It only recurs when it is a
// subscription with both an interval and a period.
type Product struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	// SalePrice overrides RegularPrice when it is greater than zero
	SalePrice       decimal.Decimal     `json:"sale_price"`
	IsSubscription  bool                `json:"is_subscription"`
	BillingInterval int                 `json:"billing_interval,omitempty"`
	BillingPeriod   types.BillingPeriod `json:"billing_period,omitempty"`
	StartDate       *time.Time          `json:"start_date,omitempty"`
}

type OneTimeFee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RecurringFee always recurs, missing cycle fields fall back to every 1 month
type RecurringFee struct {
	Name            string              `json:"name"`
	Amount          decimal.Decimal     `json:"amount"`
	BillingInterval int                 `json:"billing_interval"`
	BillingPeriod   types.BillingPeriod `json:"billing_period"`
	StartDate       *time.Time          `json:"start_date,omitempty"`
}

type ShippingFee struct {
	Amount decimal.Decimal `json:"amount"`
	// SelectedMethod is a shipping method id or SHIPPING_METHOD_CUSTOM
	SelectedMethod string `json:"selected_method"`
}

// Classification is the result of sorting a row into one-time or recurring
type Classification struct {
	Recurring bool
	Interval  int
	Period    types.BillingPeriod
}

func NewProduct(p Product) *LineItem {
	return &LineItem{
		ID:      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		Type:    types.LineItemTypeProduct,
		Product: &p,
	}
}

func NewOneTimeFee(name string, amount decimal.Decimal) *LineItem {
	return &LineItem{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		Type:       types.LineItemTypeOneTimeFee,
		OneTimeFee: &OneTimeFee{Name: name, Amount: amount},
	}
}

func NewRecurringFee(f RecurringFee) *LineItem {
	return &LineItem{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		Type:         types.LineItemTypeRecurringFee,
		RecurringFee: &f,
	}
}

func NewShippingFee(amount decimal.Decimal, method string) *LineItem {
	return &LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LINE_ITEM),
		Type:        types.LineItemTypeShippingFee,
		ShippingFee: &ShippingFee{Amount: amount, SelectedMethod: method},
	}
}

// EffectiveUnitPrice is the sale price when set, otherwise the regular price
func (p *Product) EffectiveUnitPrice() decimal.Decimal {
	if p.SalePrice.GreaterThan(decimal.Zero) {
		return p.SalePrice
	}
	return p.RegularPrice
}

// Subtotal returns the row amount before any grouping.
// A row whose variant does not match its type contributes zero.
func (li *LineItem) Subtotal() decimal.Decimal {
	switch li.Type {
	case types.LineItemTypeProduct:
		if li.Product == nil {
			return decimal.Zero
		}
		return li.Product.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(li.Product.Quantity)))
	case types.LineItemTypeOneTimeFee:
		if li.OneTimeFee == nil {
			return decimal.Zero
		}
		return li.OneTimeFee.Amount
	case types.LineItemTypeRecurringFee:
		if li.RecurringFee == nil {
			return decimal.Zero
		}
		return li.RecurringFee.Amount
	case types.LineItemTypeShippingFee:
		if li.ShippingFee == nil {
			return decimal.Zero
		}
		return li.ShippingFee.Amount
	default:
		return decimal.Zero
	}
}

// Classify decides whether the row is one-time or recurring and on which cycle
func (li *LineItem) Classify() Classification {
	switch li.Type {
	case types.LineItemTypeProduct:
		p := li.Product
		if p == nil || !p.IsSubscription || p.BillingInterval < 1 || p.BillingPeriod == "" {
			return Classification{}
		}
		return Classification{Recurring: true, Interval: p.BillingInterval, Period: p.BillingPeriod}
	case types.LineItemTypeRecurringFee:
		c := Classification{
			Recurring: true,
			Interval:  types.DEFAULT_BILLING_INTERVAL,
			Period:    types.DEFAULT_BILLING_PERIOD,
		}
		if f := li.RecurringFee; f != nil {
			if f.BillingInterval >= 1 {
				c.Interval = f.BillingInterval
			}
			if f.BillingPeriod != "" {
				c.Period = f.BillingPeriod
			}
		}
		return c
	default:
		return Classification{}
	}
}

// IsRecurring is a shorthand for Classify().Recurring
func (li *LineItem) IsRecurring() bool {
	return li.Classify().Recurring
}

// StartDate returns the start date of a recurring row, nil when unset or one-time
func (li *LineItem) StartDate() *time.Time {
	switch li.Type {
	case types.LineItemTypeProduct:
		if li.Product != nil && li.IsRecurring() {
			return li.Product.StartDate
		}
	case types.LineItemTypeRecurringFee:
		if li.RecurringFee != nil {
			return li.RecurringFee.StartDate
		}
	}
	return nil
}

// Name returns a display name for the row
func (li *LineItem) Name() string {
	switch li.Type {
	case types.LineItemTypeProduct:
		if li.Product != nil {
			return li.Product.Name
		}
	case types.LineItemTypeOneTimeFee:
		if li.OneTimeFee != nil {
			return li.OneTimeFee.Name
		}
	case types.LineItemTypeRecurringFee:
		if li.RecurringFee != nil {
			return li.RecurringFee.Name
		}
	case types.LineItemTypeShippingFee:
		return "Shipping"
	}
	return ""
}

// Validate checks that the variant pointer matches the type tag
func (li *LineItem) Validate() error {
	if err := li.Type.Validate(); err != nil {
		return err
	}

	var ok bool
	switch li.Type {
	case types.LineItemTypeProduct:
		ok = li.Product != nil
	case types.LineItemTypeOneTimeFee:
		ok = li.OneTimeFee != nil
	case types.LineItemTypeRecurringFee:
		ok = li.RecurringFee != nil
	case types.LineItemTypeShippingFee:
		ok = li.ShippingFee != nil
	}
	if !ok {
		return ierr.NewError("line item variant does not match its type").
			WithHintf("A %s line item must carry %s details", li.Type, li.Type).
			WithReportableDetails(map[string]any{
				"type": li.Type,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Copy returns a deep copy so callers cannot mutate session state
func (li *LineItem) Copy() *LineItem {
	if li == nil {
		return nil
	}
	out := *li
	if li.Product != nil {
		p := *li.Product
		out.Product = &p
	}
	if li.OneTimeFee != nil {
		f := *li.OneTimeFee
		out.OneTimeFee = &f
	}
	if li.RecurringFee != nil {
		f := *li.RecurringFee
		out.RecurringFee = &f
	}
	if li.ShippingFee != nil {
		f := *li.ShippingFee
		out.ShippingFee = &f
	}
	return &out
}

// JSONBLineItems persists an ordered list of line items in a jsonb column
type JSONBLineItems []*LineItem

func (j JSONBLineItems) Value() (driver.Value, error) {
	if j == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(j)
}

func (j *JSONBLineItems) Scan(value interface{}) error {
	if value == nil {
		*j = JSONBLineItems{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return ierr.NewError("unsupported line items column type").
			WithHintf("Expected jsonb, got %T", value).
			Mark(ierr.ErrDatabase)
	}
	return json.Unmarshal(data, j)
}
