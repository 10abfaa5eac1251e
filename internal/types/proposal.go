package types

import (
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

// ProposalStatus is the lifecycle state of a proposal
type ProposalStatus string

const (
	// ProposalStatusDraft proposals can still have their line items edited
	ProposalStatusDraft ProposalStatus = "draft"
	// ProposalStatusSubmitted proposals carry a persisted totals summary and are frozen
	ProposalStatusSubmitted ProposalStatus = "submitted"
)

func (s ProposalStatus) String() string {
	return string(s)
}

func (s ProposalStatus) Validate() error {
	allowed := []ProposalStatus{
		ProposalStatusDraft,
		ProposalStatusSubmitted,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid proposal status").
			WithHint("Please provide a valid proposal status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProposalFilter narrows a proposal listing
type ProposalFilter struct {
	*QueryFilter
	ProposalStatus *ProposalStatus `json:"proposal_status,omitempty" form:"proposal_status"`
}

// NewProposalFilter returns a filter with default pagination
func NewProposalFilter() *ProposalFilter {
	return &ProposalFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *ProposalFilter) Validate() error {
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.ProposalStatus != nil {
		return f.ProposalStatus.Validate()
	}
	return nil
}
