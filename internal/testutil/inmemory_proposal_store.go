package testutil

import (
	"context"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	"github.com/flexprice/proposals/internal/domain/proposal"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/types"
)

// InMemoryProposalStore implements proposal.Repository
type InMemoryProposalStore struct {
	*InMemoryStore[*proposal.Proposal]
}

func NewInMemoryProposalStore() *InMemoryProposalStore {
	return &InMemoryProposalStore{
		InMemoryStore: NewInMemoryStore[*proposal.Proposal](),
	}
}

// copyProposal keeps callers from mutating stored state
func copyProposal(p *proposal.Proposal) *proposal.Proposal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.LineItems = make(lineitem.JSONBLineItems, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		cp.LineItems = append(cp.LineItems, li.Copy())
	}
	return &cp
}

func proposalFilterFn(ctx context.Context, p *proposal.Proposal, filter interface{}) bool {
	if p.Status != types.StatusPublished {
		return false
	}
	f, ok := filter.(*types.ProposalFilter)
	if !ok || f == nil {
		return true
	}
	if f.ProposalStatus != nil && p.ProposalStatus != *f.ProposalStatus {
		return false
	}
	return true
}

func proposalSortFn(i, j *proposal.Proposal) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryProposalStore) Create(ctx context.Context, p *proposal.Proposal) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyProposal(p))
}

func (s *InMemoryProposalStore) Get(ctx context.Context, id string) (*proposal.Proposal, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status != types.StatusPublished {
		return nil, ierr.NewError("proposal not found").
			WithHintf("Proposal %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyProposal(p), nil
}

func (s *InMemoryProposalStore) List(ctx context.Context, filter *types.ProposalFilter) ([]*proposal.Proposal, error) {
	items, err := s.InMemoryStore.List(ctx, filter, proposalFilterFn, proposalSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*proposal.Proposal, 0, len(items))
	for _, p := range items {
		out = append(out, copyProposal(p))
	}
	return out, nil
}

func (s *InMemoryProposalStore) Count(ctx context.Context, filter *types.ProposalFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, proposalFilterFn)
}

func (s *InMemoryProposalStore) Update(ctx context.Context, p *proposal.Proposal) error {
	return s.InMemoryStore.Update(ctx, p.ID, copyProposal(p))
}

// Delete archives the proposal like the postgres repository does
func (s *InMemoryProposalStore) Delete(ctx context.Context, id string) error {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status != types.StatusPublished {
		return ierr.NewError("proposal not found").
			WithHintf("Proposal %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := copyProposal(p)
	cp.Status = types.StatusDeleted
	return s.InMemoryStore.Update(ctx, id, cp)
}
