package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flexprice/proposals/internal/domain/proposal"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/postgres"
	"github.com/flexprice/proposals/internal/types"
)

type proposalRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProposalRepository(db *postgres.DB, logger *logger.Logger) proposal.Repository {
	return &proposalRepository{db: db, logger: logger}
}

const proposalColumns = `
	id, number, title, customer_name, currency, proposal_status, line_items,
	one_time_total, recurring_totals, submitted_at,
	status, created_at, updated_at, created_by, updated_by`

func (r *proposalRepository) Create(ctx context.Context, p *proposal.Proposal) error {
	query := `
	INSERT INTO proposals (` + proposalColumns + `
	) VALUES (
		:id, :number, :title, :customer_name, :currency, :proposal_status, :line_items,
		:one_time_total, :recurring_totals, :submitted_at,
		:status, :created_at, :updated_at, :created_by, :updated_by
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create proposal").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *proposalRepository) Get(ctx context.Context, id string) (*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1 AND status = $2`

	var p proposal.Proposal
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.StatusPublished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Proposal %s not found", id).
				WithReportableDetails(map[string]any{
					"proposal_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get proposal").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *proposalRepository) List(ctx context.Context, filter *types.ProposalFilter) ([]*proposal.Proposal, error) {
	where, args := proposalWhere(filter)
	args = append(args, filter.GetLimit(), filter.GetOffset())

	order := "DESC"
	if filter.GetOrder() == types.OrderAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM proposals %s ORDER BY created_at %s LIMIT $%d OFFSET $%d`,
		proposalColumns, where, order, len(args)-1, len(args))

	proposals := make([]*proposal.Proposal, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &proposals, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list proposals").
			Mark(ierr.ErrDatabase)
	}
	return proposals, nil
}

func (r *proposalRepository) Count(ctx context.Context, filter *types.ProposalFilter) (int, error) {
	where, args := proposalWhere(filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM proposals `+where, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count proposals").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *proposalRepository) Update(ctx context.Context, p *proposal.Proposal) error {
	query := `
	UPDATE proposals SET
		title = :title,
		customer_name = :customer_name,
		currency = :currency,
		proposal_status = :proposal_status,
		line_items = :line_items,
		one_time_total = :one_time_total,
		recurring_totals = :recurring_totals,
		submitted_at = :submitted_at,
		updated_at = :updated_at,
		updated_by = :updated_by
	WHERE id = :id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update proposal").
			Mark(ierr.ErrDatabase)
	}
	return expectOneRow(result, p.ID)
}

// Delete archives the proposal, it is no longer returned by Get or List
func (r *proposalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE proposals SET status = $1, updated_at = NOW(), updated_by = $2 WHERE id = $3 AND status = $4`,
		types.StatusDeleted, types.GetUserID(ctx), id, types.StatusPublished,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete proposal").
			Mark(ierr.ErrDatabase)
	}
	return expectOneRow(result, id)
}

func proposalWhere(filter *types.ProposalFilter) (string, []interface{}) {
	where := "WHERE status = $1"
	args := []interface{}{types.StatusPublished}
	if filter != nil && filter.ProposalStatus != nil {
		args = append(args, *filter.ProposalStatus)
		where += fmt.Sprintf(" AND proposal_status = $%d", len(args))
	}
	return where, args
}

func expectOneRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewError("proposal not found").
			WithHintf("Proposal %s not found", id).
			WithReportableDetails(map[string]any{
				"proposal_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
