package proposal

import (
	"context"

	"github.com/flexprice/proposals/internal/types"
)

// Repository defines the interface for proposal data access
type Repository interface {
	Create(ctx context.Context, proposal *Proposal) error
	Get(ctx context.Context, id string) (*Proposal, error)
	List(ctx context.Context, filter *types.ProposalFilter) ([]*Proposal, error)
	Count(ctx context.Context, filter *types.ProposalFilter) (int, error)
	Update(ctx context.Context, proposal *Proposal) error
	Delete(ctx context.Context, id string) error
}
