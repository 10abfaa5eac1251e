package service

import (
	"context"

	"github.com/flexprice/proposals/internal/api/dto"
	"github.com/flexprice/proposals/internal/domain/invoice"
)

// InvoiceService computes totals for line items outside of any proposal
type InvoiceService interface {
	CalculateTotals(ctx context.Context, req dto.CalculateTotalsRequest) (*dto.TotalsResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CalculateTotals(ctx context.Context, req dto.CalculateTotalsRequest) (*dto.TotalsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := req.ToLineItems()
	totals := invoice.ComputeTotals(items)

	s.Logger.Debugw("calculated invoice totals",
		"line_items", len(items),
		"one_time_total", totals.OneTimeTotal.String(),
		"recurring_cycles", len(totals.RecurringTotals),
	)

	return dto.NewTotalsResponse(totals, newFormatter(s.Config.Currency, req.Currency)), nil
}
