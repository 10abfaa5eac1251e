package service

import (
	"context"
	"time"

	"github.com/flexprice/proposals/internal/api/dto"
	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/proposal"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// maxProductLookups bounds concurrent catalog calls made by AddProducts
const maxProductLookups = 4

// ProposalService manages proposals and their editing sessions. Line item
// edits only touch the session, SubmitProposal persists them together with
// the totals summary.
type ProposalService interface {
	CreateProposal(ctx context.Context, req dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	GetProposal(ctx context.Context, id string) (*dto.ProposalResponse, error)
	ListProposals(ctx context.Context, filter *types.ProposalFilter) (*dto.ListProposalsResponse, error)
	DeleteProposal(ctx context.Context, id string) error

	GetTotals(ctx context.Context, id string) (*dto.ProposalTotalsResponse, error)
	AddLineItem(ctx context.Context, id string, req dto.CreateLineItemRequest) (*dto.ProposalTotalsResponse, error)
	UpdateLineItem(ctx context.Context, id, lineItemID string, req dto.UpdateLineItemRequest) (*dto.ProposalTotalsResponse, error)
	RemoveLineItem(ctx context.Context, id, lineItemID string) (*dto.ProposalTotalsResponse, error)
	AddProducts(ctx context.Context, id string, req dto.AddProductsRequest) (*dto.ProposalTotalsResponse, error)

	SubmitProposal(ctx context.Context, id string) (*dto.ProposalResponse, error)
}

type proposalService struct {
	ServiceParams
	products ProductService
}

func NewProposalService(params ServiceParams, products ProductService) ProposalService {
	return &proposalService{
		ServiceParams: params,
		products:      products,
	}
}

func (s *proposalService) CreateProposal(ctx context.Context, req dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToProposal(ctx, s.Config.Currency.Code)
	if err := s.ProposalRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created proposal",
		"proposal_id", p.ID,
		"number", p.Number,
		"line_items", len(p.LineItems),
	)

	return s.toResponse(p)
}

func (s *proposalService) GetProposal(ctx context.Context, id string) (*dto.ProposalResponse, error) {
	if id == "" {
		return nil, errProposalIDRequired()
	}

	p, err := s.ProposalRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(p)
}

func (s *proposalService) ListProposals(ctx context.Context, filter *types.ProposalFilter) (*dto.ListProposalsResponse, error) {
	if filter == nil {
		filter = types.NewProposalFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	proposals, err := s.ProposalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ProposalRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		resp, err := s.toResponse(p)
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}

	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *proposalService) DeleteProposal(ctx context.Context, id string) error {
	if id == "" {
		return errProposalIDRequired()
	}

	if err := s.ProposalRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Sessions.Evict(ctx, id)

	s.Logger.Infow("deleted proposal", "proposal_id", id)
	return nil
}

// GetTotals returns the live session totals of a draft, or the totals of
// the persisted line items of a submitted proposal
func (s *proposalService) GetTotals(ctx context.Context, id string) (*dto.ProposalTotalsResponse, error) {
	if id == "" {
		return nil, errProposalIDRequired()
	}

	p, err := s.ProposalRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.IsEditable() {
		return &dto.ProposalTotalsResponse{
			ProposalID: p.ID,
			LineItems:  p.LineItems,
			Totals:     dto.NewTotalsResponse(invoice.ComputeTotals(p.LineItems), s.formatterFor(p)),
		}, nil
	}

	return s.sessionResponse(p, s.Sessions.GetOrLoad(ctx, p)), nil
}

func (s *proposalService) AddLineItem(ctx context.Context, id string, req dto.CreateLineItemRequest) (*dto.ProposalTotalsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}

	item := req.ToLineItem()
	if _, err := session.Add(item); err != nil {
		return nil, err
	}

	s.Logger.Debugw("added line item",
		"proposal_id", p.ID,
		"line_item_id", item.ID,
		"type", item.Type,
	)

	return s.sessionResponse(p, session), nil
}

func (s *proposalService) UpdateLineItem(ctx context.Context, id, lineItemID string, req dto.UpdateLineItemRequest) (*dto.ProposalTotalsResponse, error) {
	if lineItemID == "" {
		return nil, errLineItemIDRequired()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := session.Update(req.ToLineItem(lineItemID)); err != nil {
		return nil, err
	}

	s.Logger.Debugw("updated line item",
		"proposal_id", p.ID,
		"line_item_id", lineItemID,
	)

	return s.sessionResponse(p, session), nil
}

func (s *proposalService) RemoveLineItem(ctx context.Context, id, lineItemID string) (*dto.ProposalTotalsResponse, error) {
	if lineItemID == "" {
		return nil, errLineItemIDRequired()
	}

	p, session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := session.Remove(lineItemID); err != nil {
		return nil, err
	}

	s.Logger.Debugw("removed line item",
		"proposal_id", p.ID,
		"line_item_id", lineItemID,
	)

	return s.sessionResponse(p, session), nil
}

// AddProducts resolves every product concurrently and appends the rows in
// request order. Nothing is added when any lookup fails.
func (s *proposalService) AddProducts(ctx context.Context, id string, req dto.AddProductsRequest) (*dto.ProposalTotalsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]*lineitem.LineItem, len(req.Items))
	lookups := pool.New().
		WithMaxGoroutines(maxProductLookups).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, item := range req.Items {
		i, item := i, item
		lookups.Go(func(ctx context.Context) error {
			li, err := s.products.ResolveLineItem(ctx, item)
			if err != nil {
				return err
			}
			items[i] = li
			return nil
		})
	}
	if err := lookups.Wait(); err != nil {
		return nil, err
	}

	if _, err := session.Add(items...); err != nil {
		return nil, err
	}

	s.Logger.Debugw("added products",
		"proposal_id", p.ID,
		"product_ids", lo.Map(req.Items, func(item dto.AddProductItem, _ int) string {
			return item.ProductID
		}),
	)

	return s.sessionResponse(p, session), nil
}

// SubmitProposal persists the session's line items and totals summary and
// freezes the proposal.
//
// The session is frozen before its items are read, so an edit either lands
// in the submitted snapshot or fails. It stays frozen in the registry until
// it expires, and is unfrozen when the submit fails.
func (s *proposalService) SubmitProposal(ctx context.Context, id string) (*dto.ProposalResponse, error) {
	if id == "" {
		return nil, errProposalIDRequired()
	}

	var (
		submitted *proposal.Proposal
		session   *invoice.Session
	)
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		p, err := s.ProposalRepo.Get(txCtx, id)
		if err != nil {
			return err
		}
		if err := p.EnsureEditable(); err != nil {
			return err
		}

		current := s.Sessions.GetOrLoad(txCtx, p)
		items, totals, _, err := current.Freeze()
		if err != nil {
			return err
		}
		session = current

		if len(items) == 0 {
			return ierr.NewError("proposal has no line items").
				WithHint("Add at least one line item before submitting the proposal").
				WithReportableDetails(map[string]any{
					"proposal_id": p.ID,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		p.Submit(items, invoice.NewSummary(totals), time.Now().UTC())
		p.UpdatedBy = types.GetUserID(txCtx)
		if err := s.ProposalRepo.Update(txCtx, p); err != nil {
			return err
		}
		submitted = p
		return nil
	})
	if err != nil {
		if session != nil {
			session.Unfreeze()
		}
		return nil, err
	}

	s.Logger.Infow("submitted proposal",
		"proposal_id", submitted.ID,
		"one_time_total", submitted.OneTimeTotal,
		"recurring_totals", submitted.RecurringTotals,
	)

	return s.toResponse(submitted)
}

func (s *proposalService) editableSession(ctx context.Context, id string) (*proposal.Proposal, *invoice.Session, error) {
	if id == "" {
		return nil, nil, errProposalIDRequired()
	}

	p, err := s.ProposalRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := p.EnsureEditable(); err != nil {
		return nil, nil, err
	}
	return p, s.Sessions.GetOrLoad(ctx, p), nil
}

func (s *proposalService) sessionResponse(p *proposal.Proposal, session *invoice.Session) *dto.ProposalTotalsResponse {
	items, totals, version := session.Snapshot()
	return &dto.ProposalTotalsResponse{
		ProposalID: p.ID,
		Version:    version,
		LineItems:  items,
		Totals:     dto.NewTotalsResponse(totals, s.formatterFor(p)),
	}
}

func (s *proposalService) formatterFor(p *proposal.Proposal) *invoice.Formatter {
	return newFormatter(s.Config.Currency, p.Currency)
}

func (s *proposalService) toResponse(p *proposal.Proposal) (*dto.ProposalResponse, error) {
	resp := &dto.ProposalResponse{Proposal: p}
	if p.RecurringTotals != "" {
		summary, err := invoice.ParseRecurringTotals(p.RecurringTotals)
		if err != nil {
			return nil, err
		}
		resp.Summary = summary
	}
	return resp, nil
}

func errProposalIDRequired() error {
	return ierr.NewError("proposal_id is required").
		WithHint("Proposal ID is required").
		Mark(ierr.ErrValidation)
}

func errLineItemIDRequired() error {
	return ierr.NewError("line_item_id is required").
		WithHint("Line item ID is required").
		Mark(ierr.ErrValidation)
}
