package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/proposals/internal/api/dto"
	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/product"
	"github.com/flexprice/proposals/internal/domain/proposal"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/testutil"
	"github.com/flexprice/proposals/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProposalServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service ProposalService
}

func TestProposalService(t *testing.T) {
	suite.Run(t, new(ProposalServiceSuite))
}

func (s *ProposalServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = newTestParams(&s.BaseServiceTestSuite)
	s.service = NewProposalService(s.params, NewProductService(s.params))

	s.Require().NoError(s.GetStores().ProductRepo.Add(s.GetContext(), &product.Product{
		ID:           "prod_widget",
		Name:         "Widget",
		RegularPrice: decimal.RequireFromString("10"),
	}))
	s.Require().NoError(s.GetStores().ProductRepo.Add(s.GetContext(), &product.Product{
		ID:              "prod_support",
		Name:            "Support",
		RegularPrice:    decimal.RequireFromString("300"),
		IsSubscription:  true,
		BillingInterval: 3,
		BillingPeriod:   types.BILLING_PERIOD_MONTH,
	}))
}

func (s *ProposalServiceSuite) createProposal(rows ...lineitem.Raw) *dto.ProposalResponse {
	resp, err := s.service.CreateProposal(s.GetContext(), dto.CreateProposalRequest{
		Title:        "Website rebuild",
		CustomerName: "Acme",
		LineItems:    rows,
	})
	s.Require().NoError(err)
	return resp
}

func (s *ProposalServiceSuite) TestCreateProposal() {
	resp := s.createProposal(lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"})

	s.NotEmpty(resp.ID)
	s.Contains(resp.Number, types.SHORT_ID_PREFIX_PROPOSAL)
	s.Equal("usd", resp.Currency)
	s.Equal(types.ProposalStatusDraft, resp.ProposalStatus)
	s.Len(resp.LineItems, 1)

	_, err := s.service.CreateProposal(s.GetContext(), dto.CreateProposalRequest{})
	s.True(ierr.IsValidation(err))
}

func (s *ProposalServiceSuite) TestGetAndListProposals() {
	first := s.createProposal()
	s.createProposal()

	got, err := s.service.GetProposal(s.GetContext(), first.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, got.ID)

	filter := types.NewProposalFilter()
	filter.Limit = lo.ToPtr(1)
	list, err := s.service.ListProposals(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(list.Items, 1)
	s.Equal(2, list.Pagination.Total)

	_, err = s.service.GetProposal(s.GetContext(), "prop_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *ProposalServiceSuite) TestEditSession() {
	p := s.createProposal(lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"})

	totals, err := s.service.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "recurring_fee", Name: "Hosting", Amount: "30"},
	})
	s.Require().NoError(err)
	s.Require().Len(totals.LineItems, 2)
	s.Equal("30.00", totals.Totals.AverageMonthlyTotal)
	s.Equal("$30.00/month", totals.Totals.Display.AverageMonthlyTotal)
	s.True(totals.Totals.RequiresStartDateColumn)

	hostingID := totals.LineItems[1].ID
	totals, err = s.service.UpdateLineItem(s.GetContext(), p.ID, hostingID, dto.UpdateLineItemRequest{
		Raw: lineitem.Raw{Type: "recurring_fee", Name: "Hosting", Amount: "60", BillingInterval: "2", BillingPeriod: "month"},
	})
	s.Require().NoError(err)
	s.Equal(hostingID, totals.LineItems[1].ID)
	s.Equal("60.00", totals.Totals.RecurringTotals["2_month"].Total)
	s.Equal("/2 months", totals.Totals.RecurringTotals["2_month"].Label)
	s.Equal("30.00", totals.Totals.AverageMonthlyTotal)

	totals, err = s.service.RemoveLineItem(s.GetContext(), p.ID, hostingID)
	s.Require().NoError(err)
	s.Len(totals.LineItems, 1)
	s.Empty(totals.Totals.RecurringTotals)

	_, err = s.service.RemoveLineItem(s.GetContext(), p.ID, hostingID)
	s.True(ierr.IsNotFound(err))

	// edits stay in the session until submit
	stored, err := s.GetStores().ProposalRepo.Get(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Len(stored.LineItems, 1)

	current, err := s.service.GetTotals(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal(totals.Version, current.Version)
	s.Equal("100.00", current.Totals.OneTimeTotal)
}

func (s *ProposalServiceSuite) TestAddProducts() {
	p := s.createProposal()

	totals, err := s.service.AddProducts(s.GetContext(), p.ID, dto.AddProductsRequest{
		Items: []dto.AddProductItem{
			{ProductID: "prod_widget", Quantity: 4},
			{ProductID: "prod_support", Quantity: 1, StartDate: "2024-01-31"},
			{ProductID: "prod_widget", Quantity: 1},
		},
	})
	s.Require().NoError(err)
	s.Require().Len(totals.LineItems, 3)
	s.Equal("prod_widget", totals.LineItems[0].Product.ProductID)
	s.Equal("prod_support", totals.LineItems[1].Product.ProductID)
	s.Equal("50.00", totals.Totals.OneTimeTotal)
	s.Equal("300.00", totals.Totals.RecurringTotals["3_month"].Total)
	s.Equal("100.00", totals.Totals.AverageMonthlyTotal)
	s.Require().NotNil(totals.Totals.Rows[1].RenewsOn)
	s.Equal("2024-04-30", totals.Totals.Rows[1].RenewsOn.Format("2006-01-02"))

	_, err = s.service.AddProducts(s.GetContext(), p.ID, dto.AddProductsRequest{
		Items: []dto.AddProductItem{
			{ProductID: "prod_widget", Quantity: 1},
			{ProductID: "prod_missing", Quantity: 1},
		},
	})
	s.True(ierr.IsNotFound(err))

	current, err := s.service.GetTotals(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Len(current.LineItems, 3)
}

func (s *ProposalServiceSuite) TestSubmitProposal() {
	p := s.createProposal(lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"})
	_, err := s.service.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "recurring_fee", Name: "Hosting", Amount: "29.99", BillingInterval: "1", BillingPeriod: "month"},
	})
	s.Require().NoError(err)

	submitted, err := s.service.SubmitProposal(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal(types.ProposalStatusSubmitted, submitted.ProposalStatus)
	s.Equal("100.00", submitted.OneTimeTotal)
	s.JSONEq(`{"1_month":{"total":"29.99","interval":1,"period":"month"}}`, submitted.RecurringTotals)
	s.Equal("29.99", submitted.Summary["1_month"].Total)
	s.NotNil(submitted.SubmittedAt)
	s.Len(submitted.LineItems, 2)
	s.Equal(1, s.params.Sessions.Len())
	s.True(s.params.Sessions.GetOrLoad(s.GetContext(), p.Proposal).Frozen())

	stored, err := s.GetStores().ProposalRepo.Get(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Len(stored.LineItems, 2)

	_, err = s.service.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "one_time_fee", Amount: "1"},
	})
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.SubmitProposal(s.GetContext(), p.ID)
	s.True(ierr.IsInvalidOperation(err))

	totals, err := s.service.GetTotals(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal("29.99", totals.Totals.AverageMonthlyTotal)
	s.Equal("100.00", totals.Totals.OneTimeTotal)
}

func (s *ProposalServiceSuite) TestSubmitEmptyProposal() {
	p := s.createProposal()
	_, err := s.service.SubmitProposal(s.GetContext(), p.ID)
	s.True(ierr.IsInvalidOperation(err))

	// a failed submit leaves the proposal editable
	_, err = s.service.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"},
	})
	s.Require().NoError(err)

	submitted, err := s.service.SubmitProposal(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal("100.00", submitted.OneTimeTotal)
}

// blockingProposalRepo holds Update until released
type blockingProposalRepo struct {
	proposal.Repository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *blockingProposalRepo) Update(ctx context.Context, p *proposal.Proposal) error {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	return r.Repository.Update(ctx, p)
}

func (s *ProposalServiceSuite) TestEditDuringSubmitIsRejected() {
	p := s.createProposal(lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"})

	repo := &blockingProposalRepo{
		Repository: s.GetStores().ProposalRepo,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	params := s.params
	params.ProposalRepo = repo
	svc := NewProposalService(params, NewProductService(params))

	done := make(chan error, 1)
	go func() {
		_, err := svc.SubmitProposal(s.GetContext(), p.ID)
		done <- err
	}()

	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		s.FailNow("submit never reached the repository")
	}

	_, err := svc.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "one_time_fee", Name: "Travel", Amount: "50"},
	})
	s.True(ierr.IsInvalidOperation(err))

	_, err = svc.AddProducts(s.GetContext(), p.ID, dto.AddProductsRequest{
		Items: []dto.AddProductItem{{ProductID: "prod_widget", Quantity: 1}},
	})
	s.True(ierr.IsInvalidOperation(err))

	close(repo.release)
	s.Require().NoError(<-done)

	stored, err := s.GetStores().ProposalRepo.Get(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal(types.ProposalStatusSubmitted, stored.ProposalStatus)
	s.Len(stored.LineItems, 1)
	s.Equal("100.00", stored.OneTimeTotal)
}

func (s *ProposalServiceSuite) TestSessionRebuiltAfterEviction() {
	p := s.createProposal(lineitem.Raw{Type: "one_time_fee", Name: "Setup", Amount: "100"})
	_, err := s.service.AddLineItem(s.GetContext(), p.ID, dto.CreateLineItemRequest{
		Raw: lineitem.Raw{Type: "one_time_fee", Name: "Travel", Amount: "50"},
	})
	s.Require().NoError(err)

	s.params.Sessions.Evict(s.GetContext(), p.ID)

	totals, err := s.service.GetTotals(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Len(totals.LineItems, 1)
	s.Equal("100.00", totals.Totals.OneTimeTotal)
}

func (s *ProposalServiceSuite) TestDeleteProposal() {
	p := s.createProposal()
	_, err := s.service.GetTotals(s.GetContext(), p.ID)
	s.Require().NoError(err)
	s.Equal(1, s.params.Sessions.Len())

	s.Require().NoError(s.service.DeleteProposal(s.GetContext(), p.ID))
	s.Equal(0, s.params.Sessions.Len())

	_, err = s.service.GetProposal(s.GetContext(), p.ID)
	s.True(ierr.IsNotFound(err))
	s.True(ierr.IsNotFound(s.service.DeleteProposal(s.GetContext(), p.ID)))
}
