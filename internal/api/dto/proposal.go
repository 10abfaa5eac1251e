package dto

import (
	"context"
	"strings"

	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/proposal"
	"github.com/flexprice/proposals/internal/types"
	"github.com/flexprice/proposals/internal/validator"
)

type CreateProposalRequest struct {
	Title        string `json:"title" validate:"required"`
	CustomerName string `json:"customer_name,omitempty"`
	// Currency defaults to the configured currency code
	Currency  string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	LineItems []lineitem.Raw `json:"line_items,omitempty" validate:"dive"`
}

func (r *CreateProposalRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateRawList(r.LineItems)
}

func (r *CreateProposalRequest) ToProposal(ctx context.Context, defaultCurrency string) *proposal.Proposal {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &proposal.Proposal{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROPOSAL),
		Number:         types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_PROPOSAL),
		Title:          r.Title,
		CustomerName:   r.CustomerName,
		Currency:       strings.ToLower(currency),
		ProposalStatus: types.ProposalStatusDraft,
		LineItems:      lineitem.FromRaw(r.LineItems),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

type ProposalResponse struct {
	*proposal.Proposal
	// Summary is the parsed recurring totals of a submitted proposal
	Summary map[string]invoice.SummaryCycle `json:"summary,omitempty"`
}

type ListProposalsResponse = types.ListResponse[*ProposalResponse]

// AddProductsRequest adds catalog products as product rows
type AddProductsRequest struct {
	Items []AddProductItem `json:"items" validate:"required,min=1,dive"`
}

type AddProductItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
	// StartDate is the first billing date of a subscription product, YYYY-MM-DD
	StartDate string `json:"start_date,omitempty"`
}

func (r *AddProductsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ProposalTotalsResponse is the state of a proposal's editing session
type ProposalTotalsResponse struct {
	ProposalID string               `json:"proposal_id"`
	Version    uint64               `json:"version"`
	LineItems  []*lineitem.LineItem `json:"line_items"`
	Totals     *TotalsResponse      `json:"totals"`
}
