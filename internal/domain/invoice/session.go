package invoice

import (
	"sync"

	"github.com/flexprice/proposals/internal/domain/lineitem"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/samber/lo"
)

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionComputing
)

func (s SessionState) String() string {
	switch s {
	case SessionComputing:
		return "computing"
	default:
		return "idle"
	}
}

// Session owns the ordered line items of one proposal being edited and
// the totals derived from them.
//
// Every mutation bumps the version. Recompute requests made while a pass
// is running are coalesced, the running pass loops once more for the
// latest version. A request for a version that is already computed does
// nothing, so an onChange callback that calls Trigger cannot loop.
// onChange runs outside the lock and must not mutate the session.
//
// A frozen session rejects every mutation until it is unfrozen.
type Session struct {
	mu   sync.Mutex
	done *sync.Cond

	id              string
	items           []*lineitem.LineItem
	state           SessionState
	version         uint64
	computedVersion uint64
	passes          int
	frozen          bool
	totals          *Totals
	onChange        func(*Totals)
}

// NewSession copies items and computes the initial totals
func NewSession(id string, items []*lineitem.LineItem, onChange func(*Totals)) *Session {
	s := &Session{
		id:       id,
		items:    copyItems(items),
		version:  1,
		onChange: onChange,
	}
	s.done = sync.NewCond(&s.mu)
	s.Trigger()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Add appends items in order and returns the totals including them
func (s *Session) Add(items ...*lineitem.LineItem) (*Totals, error) {
	return s.mutate(func() error {
		s.items = append(s.items, copyItems(items)...)
		return nil
	})
}

// Update replaces the item with the same ID, keeping its position
func (s *Session) Update(item *lineitem.LineItem) (*Totals, error) {
	return s.mutate(func() error {
		_, idx, ok := lo.FindIndexOf(s.items, func(li *lineitem.LineItem) bool {
			return li.ID == item.ID
		})
		if !ok {
			return errLineItemNotFound(item.ID)
		}
		s.items[idx] = item.Copy()
		return nil
	})
}

// Remove deletes the item with the given ID
func (s *Session) Remove(lineItemID string) (*Totals, error) {
	return s.mutate(func() error {
		_, idx, ok := lo.FindIndexOf(s.items, func(li *lineitem.LineItem) bool {
			return li.ID == lineItemID
		})
		if !ok {
			return errLineItemNotFound(lineItemID)
		}
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		return nil
	})
}

// Replace swaps the whole item list
func (s *Session) Replace(items []*lineitem.LineItem) (*Totals, error) {
	return s.mutate(func() error {
		s.items = copyItems(items)
		return nil
	})
}

// Items returns a copy of the current line items in order
func (s *Session) Items() []*lineitem.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Get returns a copy of a single line item
func (s *Session) Get(lineItemID string) (*lineitem.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := lo.Find(s.items, func(li *lineitem.LineItem) bool {
		return li.ID == lineItemID
	})
	if !ok {
		return nil, errLineItemNotFound(lineItemID)
	}
	return item.Copy(), nil
}

// Snapshot returns the items, the totals computed from exactly those
// items, and their version.
func (s *Session) Snapshot() ([]*lineitem.LineItem, *Totals, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.computedVersion < s.version {
		s.done.Wait()
	}
	return copyItems(s.items), s.totals, s.computedVersion
}

// Freeze stops all further mutations and returns the final snapshot.
// Mutations already applied are included. It fails when the session is
// already frozen.
func (s *Session) Freeze() ([]*lineitem.LineItem, *Totals, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return nil, nil, 0, errSessionFrozen(s.id)
	}
	s.frozen = true
	for s.computedVersion < s.version {
		s.done.Wait()
	}
	return copyItems(s.items), s.totals, s.computedVersion, nil
}

// Unfreeze accepts mutations again
func (s *Session) Unfreeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = false
}

func (s *Session) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Totals returns the most recently published totals
func (s *Session) Totals() *Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Passes returns how many times totals have been computed
func (s *Session) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// Trigger requests a recompute without waiting for it. It is a no-op when
// the current version is computed or a pass is already running.
func (s *Session) Trigger() {
	s.mu.Lock()
	s.run()
	s.mu.Unlock()
}

// mutate applies fn under the lock, then waits until a pass covering the
// change has been published.
func (s *Session) mutate(fn func() error) (*Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return s.totals, errSessionFrozen(s.id)
	}
	if err := fn(); err != nil {
		return s.totals, err
	}
	s.version++
	want := s.version

	s.run()
	for s.computedVersion < want {
		s.done.Wait()
	}
	return s.totals, nil
}

// run must be called with the lock held and returns with it held.
func (s *Session) run() {
	if s.state == SessionComputing || s.computedVersion == s.version {
		return
	}

	s.state = SessionComputing
	for s.computedVersion != s.version {
		version := s.version
		items := copyItems(s.items)
		s.mu.Unlock()

		totals := ComputeTotals(items)

		s.mu.Lock()
		s.totals = totals
		s.computedVersion = version
		s.passes++

		if s.onChange != nil {
			s.mu.Unlock()
			s.onChange(totals)
			s.mu.Lock()
		}
		s.done.Broadcast()
	}
	s.state = SessionIdle
}

func copyItems(items []*lineitem.LineItem) []*lineitem.LineItem {
	out := make([]*lineitem.LineItem, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item.Copy())
		}
	}
	return out
}

func errSessionFrozen(id string) error {
	return ierr.NewError("session is frozen").
		WithHint("The proposal is being submitted and can no longer be edited").
		WithReportableDetails(map[string]any{
			"proposal_id": id,
		}).
		Mark(ierr.ErrInvalidOperation)
}

func errLineItemNotFound(id string) error {
	return ierr.NewError("line item not found").
		WithHintf("Line item %s does not exist on this proposal", id).
		WithReportableDetails(map[string]any{
			"line_item_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
