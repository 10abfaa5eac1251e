package service

import (
	"strings"

	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/types"
)

// newFormatter applies the configured separators to a currency. The
// configured symbol is used for the configured code, other codes get their
// own symbol.
func newFormatter(cfg config.CurrencyConfig, currency string) *invoice.Formatter {
	symbol := cfg.Symbol
	if currency != "" && !strings.EqualFold(currency, cfg.Code) {
		symbol = types.GetCurrencySymbol(currency)
	}
	return &invoice.Formatter{
		Symbol:             symbol,
		SymbolPosition:     cfg.SymbolPosition,
		ThousandsSeparator: cfg.ThousandsSeparator,
		DecimalSeparator:   cfg.DecimalSeparator,
		Precision:          cfg.Precision,
	}
}
