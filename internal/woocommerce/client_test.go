package woocommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/proposals/internal/config"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/httpclient"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subscriptionJSON = `{
	"id": 42,
	"name": "Managed hosting",
	"sku": "HOST-1",
	"type": "subscription",
	"regular_price": "49.00",
	"sale_price": "",
	"meta_data": [
		{"id": 1, "key": "_subscription_period", "value": "month"},
		{"id": 2, "key": "_subscription_period_interval", "value": "3"},
		{"id": 3, "key": "_other", "value": {"nested": true}}
	]
}`

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.NewNoopLogger()
	client := httpclient.NewDefaultClient(httpclient.ClientConfig{Timeout: time.Second}, log)
	return NewCatalog(config.WooCommerceConfig{
		BaseURL:        srv.URL + "/",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
	}, client, log)
}

func TestCatalog_Get(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck", user)
		assert.Equal(t, "cs", pass)

		switch r.URL.Path {
		case "/wp-json/wc/v3/products/42":
			_, _ = w.Write([]byte(subscriptionJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"woocommerce_rest_product_invalid_id"}`))
		}
	})

	p, err := c.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "HOST-1", p.SKU)
	assert.True(t, decimal.NewFromInt(49).Equal(p.RegularPrice))
	assert.True(t, p.SalePrice.IsZero())
	assert.True(t, p.IsSubscription)
	assert.Equal(t, 3, p.BillingInterval)
	assert.Equal(t, types.BILLING_PERIOD_MONTH, p.BillingPeriod)

	_, err = c.Get(context.Background(), "7")
	assert.True(t, ierr.IsNotFound(err))

	_, err = c.Get(context.Background(), "abc")
	assert.True(t, ierr.IsValidation(err))
}

func TestCatalog_Search(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "host", r.URL.Query().Get("search"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[` + subscriptionJSON + `,
			{"id": 7, "name": "Logo design", "type": "simple", "regular_price": "300", "sale_price": "250", "meta_data": []}
		]`))
	})

	products, err := c.Search(context.Background(), "host", 5)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.False(t, products[1].IsSubscription)
	assert.True(t, decimal.NewFromInt(250).Equal(products[1].SalePrice))
}

func TestCatalog_BadPayload(t *testing.T) {
	c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.Search(context.Background(), "x", 1)
	assert.True(t, ierr.IsHTTPClient(err))
}
