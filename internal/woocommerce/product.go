package woocommerce

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/product"
	"github.com/flexprice/proposals/internal/types"
)

const (
	metaSubscriptionPeriod   = "_subscription_period"
	metaSubscriptionInterval = "_subscription_period_interval"
)

type wcMeta struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type wcProduct struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	Type         string   `json:"type"`
	RegularPrice string   `json:"regular_price"`
	SalePrice    string   `json:"sale_price"`
	MetaData     []wcMeta `json:"meta_data"`
}

func (p *wcProduct) meta(key string) string {
	for _, m := range p.MetaData {
		if m.Key == key && m.Value != nil {
			return strings.TrimSpace(fmt.Sprint(m.Value))
		}
	}
	return ""
}

// toProduct maps the REST shape onto a catalog product. Subscription
// products carry their cycle in meta data, prices are strings that may
// be empty.
func (p *wcProduct) toProduct() *product.Product {
	out := &product.Product{
		ID:           strconv.Itoa(p.ID),
		Name:         p.Name,
		SKU:          p.SKU,
		RegularPrice: lineitem.ParseAmount(p.RegularPrice),
		SalePrice:    lineitem.ParseAmount(p.SalePrice),
	}

	period := p.meta(metaSubscriptionPeriod)
	if strings.Contains(p.Type, "subscription") || period != "" {
		out.IsSubscription = true
		out.BillingPeriod = types.NormalizeBillingPeriod(period)
		out.BillingInterval = lineitem.ParseInterval(p.meta(metaSubscriptionInterval))
		if out.BillingInterval == 0 && out.BillingPeriod != "" {
			out.BillingInterval = types.DEFAULT_BILLING_INTERVAL
		}
	}
	return out
}
