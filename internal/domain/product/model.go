package product

import (
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry that can be added to a proposal
type Product struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	SKU  string `db:"sku" json:"sku"`

	// RegularPrice is the list price in main currency units
	RegularPrice decimal.Decimal `db:"regular_price" json:"regular_price"`
	// SalePrice replaces RegularPrice when greater than zero
	SalePrice decimal.Decimal `db:"sale_price" json:"sale_price"`

	IsSubscription bool `db:"is_subscription" json:"is_subscription"`

	// BillingInterval and BillingPeriod are only meaningful for subscriptions
	BillingInterval int                 `db:"billing_interval" json:"billing_interval"`
	BillingPeriod   types.BillingPeriod `db:"billing_period" json:"billing_period"`

	types.BaseModel
}

// ToLineItem resolves the product into a product line item
func (p *Product) ToLineItem(quantity int) *lineitem.LineItem {
	item := lineitem.Product{
		ProductID:    p.ID,
		Name:         p.Name,
		Quantity:     max(quantity, 0),
		RegularPrice: p.RegularPrice,
		SalePrice:    p.SalePrice,
	}
	if p.IsSubscription {
		item.IsSubscription = true
		item.BillingInterval = p.BillingInterval
		item.BillingPeriod = p.BillingPeriod
	}
	return lineitem.NewProduct(item)
}
