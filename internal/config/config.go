package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/proposals/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Catalog    CatalogConfig  `validate:"required"`
	Cache      CacheConfig
	Session    SessionConfig  `validate:"required"`
	Currency   CurrencyConfig `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string        `mapstructure:"dbname"`
	SSLMode           string        `mapstructure:"sslmode"`
	MaxOpenConns      int           `mapstructure:"max_open_conns"`
	ConnectMaxElapsed time.Duration `mapstructure:"connect_max_elapsed"`
	AutoMigrate       bool          `mapstructure:"auto_migrate"`
}

// CatalogConfig selects the product lookup backend used to resolve line items
type CatalogConfig struct {
	Provider    types.CatalogProvider `validate:"required,oneof=postgres woocommerce"`
	WooCommerce WooCommerceConfig
}

type WooCommerceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ConsumerKey    string        `mapstructure:"consumer_key"`
	ConsumerSecret string        `mapstructure:"consumer_secret"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
	// RequestsPerSecond throttles calls to the store, 0 disables throttling
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type CacheConfig struct {
	Enabled    bool
	ProductTTL time.Duration `mapstructure:"product_ttl"`
}

// SessionConfig controls how long an idle proposal editing session is kept
type SessionConfig struct {
	TTL time.Duration `validate:"required"`
}

// CurrencyConfig is the display convention for formatted amounts
type CurrencyConfig struct {
	Code               string               `validate:"required,len=3"`
	Symbol             string               `validate:"required"`
	SymbolPosition     types.SymbolPosition `mapstructure:"symbol_position" validate:"required,oneof=left right"`
	ThousandsSeparator string               `mapstructure:"thousands_separator" validate:"max=1"`
	DecimalSeparator   string               `mapstructure:"decimal_separator" validate:"required,len=1"`
	Precision          int                  `validate:"min=0,max=6"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/proposals")

	v.SetEnvPrefix("PROPOSALS")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("No config file found, using defaults and environment: %v\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	def := GetDefaultConfig()
	v.SetDefault("deployment.mode", def.Deployment.Mode)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.connect_max_elapsed", 30*time.Second)
	v.SetDefault("catalog.provider", def.Catalog.Provider)
	v.SetDefault("catalog.woocommerce.timeout", def.Catalog.WooCommerce.Timeout)
	v.SetDefault("catalog.woocommerce.retry_max", def.Catalog.WooCommerce.RetryMax)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.product_ttl", def.Cache.ProductTTL)
	v.SetDefault("session.ttl", def.Session.TTL)
	v.SetDefault("currency.code", def.Currency.Code)
	v.SetDefault("currency.symbol", def.Currency.Symbol)
	v.SetDefault("currency.symbol_position", def.Currency.SymbolPosition)
	v.SetDefault("currency.thousands_separator", def.Currency.ThousandsSeparator)
	v.SetDefault("currency.decimal_separator", def.Currency.DecimalSeparator)
	v.SetDefault("currency.precision", def.Currency.Precision)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Currency.ThousandsSeparator != "" && c.Currency.ThousandsSeparator == c.Currency.DecimalSeparator {
		return fmt.Errorf("currency thousands separator and decimal separator must differ")
	}
	return nil
}

// GetDefaultConfig returns a configuration for local development, tests and the CLI
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Catalog: CatalogConfig{
			Provider: types.CatalogProviderPostgres,
			WooCommerce: WooCommerceConfig{
				Timeout:  10 * time.Second,
				RetryMax: 3,
			},
		},
		Cache:   CacheConfig{Enabled: true, ProductTTL: 5 * time.Minute},
		Session: SessionConfig{TTL: 2 * time.Hour},
		Currency: CurrencyConfig{
			Code:               "usd",
			Symbol:             "$",
			SymbolPosition:     types.SymbolPositionLeft,
			ThousandsSeparator: ",",
			DecimalSeparator:   ".",
			Precision:          2,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
