package woocommerce

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/domain/product"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/httpclient"
	"github.com/flexprice/proposals/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ product.Repository = (*Catalog)(nil)

const productsPath = "/wp-json/wc/v3/products"

// Catalog reads products from a WooCommerce store REST API
type Catalog struct {
	baseURL string
	auth    string
	client  httpclient.Client
	logger  *logger.Logger
}

// NewCatalog returns a product catalog backed by WooCommerce
func NewCatalog(cfg config.WooCommerceConfig, client httpclient.Client, log *logger.Logger) *Catalog {
	creds := cfg.ConsumerKey + ":" + cfg.ConsumerSecret
	return &Catalog{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(creds)),
		client:  client,
		logger:  log,
	}
}

func (c *Catalog) Get(ctx context.Context, id string) (*product.Product, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, ierr.NewError("invalid product id").
			WithHintf("WooCommerce product ids are numeric, got %q", id).
			Mark(ierr.ErrValidation)
	}

	var wp wcProduct
	if err := c.get(ctx, productsPath+"/"+id, nil, &wp); err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.NotFound() {
			return nil, ierr.WithError(err).
				WithHintf("Product %s not found", id).
				WithReportableDetails(map[string]any{
					"product_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return wp.toProduct(), nil
}

func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]*product.Product, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("status", "publish")

	var wps []wcProduct
	if err := c.get(ctx, productsPath, params, &wps); err != nil {
		return nil, err
	}

	products := make([]*product.Product, 0, len(wps))
	for i := range wps {
		products = append(products, wps[i].toProduct())
	}
	return products, nil
}

func (c *Catalog) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := c.client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    u,
		Headers: map[string]string{
			"Authorization": c.auth,
			"Accept":        "application/json",
		},
	})
	if err != nil {
		c.logger.Warnw("woocommerce request failed", "path", path, "error", err)
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHint("Unexpected response from the product catalog").
			WithMessagef("decode %s", path).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}
