package types

type RunMode string

const (
	// ModeLocal runs the API server against local dependencies
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// CatalogProvider selects where product data for line items is looked up
type CatalogProvider string

const (
	CatalogProviderPostgres    CatalogProvider = "postgres"
	CatalogProviderWooCommerce CatalogProvider = "woocommerce"
)

// SymbolPosition places the currency symbol relative to the amount
type SymbolPosition string

const (
	SymbolPositionLeft  SymbolPosition = "left"
	SymbolPositionRight SymbolPosition = "right"
)
