package service

import (
	"context"
	"sync"

	"github.com/flexprice/proposals/internal/cache"
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/domain/invoice"
	"github.com/flexprice/proposals/internal/domain/proposal"
	"github.com/flexprice/proposals/internal/logger"
)

// SessionRegistry keeps one editing session per proposal. Sessions expire
// after session.ttl without access and are rebuilt from the persisted line
// items on the next access. The session of a submitted proposal stays
// frozen until it expires.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions *cache.InMemoryCache
	logger   *logger.Logger
}

func NewSessionRegistry(cfg *config.Configuration, log *logger.Logger) *SessionRegistry {
	r := &SessionRegistry{logger: log}
	r.sessions = cache.NewInMemoryCache(cache.Options{
		Enabled:           true,
		DefaultExpiration: cfg.Session.TTL,
		CleanupInterval:   cfg.Session.TTL / 2,
		OnEvicted: func(key string, _ interface{}) {
			log.Debugw("editing session evicted", "key", key)
		},
	})
	return r
}

// GetOrLoad returns the live session of p, creating it from p's persisted
// line items when there is none. Each access extends the session's TTL.
func (r *SessionRegistry) GetOrLoad(ctx context.Context, p *proposal.Proposal) *invoice.Session {
	key := cache.GenerateKey(cache.PrefixSession, p.ID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(ctx, key); ok {
		session := v.(*invoice.Session)
		r.sessions.Set(ctx, key, session, 0)
		return session
	}

	proposalID := p.ID
	session := invoice.NewSession(proposalID, p.LineItems, func(t *invoice.Totals) {
		r.logger.Debugw("proposal totals recomputed",
			"proposal_id", proposalID,
			"one_time_total", t.OneTimeTotal.String(),
			"recurring_cycles", len(t.RecurringTotals),
			"average_monthly_total", t.AverageMonthlyTotal.String(),
		)
	})
	r.sessions.Set(ctx, key, session, 0)

	r.logger.Debugw("editing session loaded",
		"proposal_id", proposalID,
		"line_items", len(p.LineItems),
	)
	return session
}

// Evict drops the session of a proposal
func (r *SessionRegistry) Evict(ctx context.Context, proposalID string) {
	r.sessions.Delete(ctx, cache.GenerateKey(cache.PrefixSession, proposalID))
}

// Len returns the number of sessions held, including expired ones not yet cleaned up
func (r *SessionRegistry) Len() int {
	return r.sessions.ItemCount()
}
