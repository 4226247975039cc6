// Package state tracks the lifecycle of lookups submitted from one input
// field: Idle, Pending, Succeeded or Failed, never two at once.
package state

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one submission. Only the latest ticket may complete.
type Ticket uint64

type Snapshot struct {
	Phase   Phase
	Query   string
	Message string
	Since   time.Time
	Ticket  Ticket
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	clock clockwork.Clock
	snap  Snapshot
}

func NewTracker(clock clockwork.Clock) *Tracker {
	return &Tracker{
		clock: clock,
		snap:  Snapshot{Phase: Idle, Since: clock.Now()},
	}
}

// Submit moves to Pending for query, clearing any previous outcome, and
// supersedes every earlier ticket.
func (t *Tracker) Submit(query string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.snap.Ticket + 1
	t.snap = Snapshot{
		Phase:  Pending,
		Query:  query,
		Since:  t.clock.Now(),
		Ticket: next,
	}
	return next
}

// Succeed completes ticket. It reports false when the ticket is stale or
// no longer pending.
func (t *Tracker) Succeed(ticket Ticket) bool {
	return t.complete(ticket, Succeeded, "")
}

// Fail completes ticket with a user-facing message.
func (t *Tracker) Fail(ticket Ticket, message string) bool {
	return t.complete(ticket, Failed, message)
}

// Reset returns to Idle and invalidates any outstanding ticket.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap = Snapshot{Phase: Idle, Since: t.clock.Now(), Ticket: t.snap.Ticket + 1}
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Elapsed is the time spent in the current phase.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clock.Since(t.snap.Since)
}

func (t *Tracker) complete(ticket Ticket, phase Phase, message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ticket != t.snap.Ticket || t.snap.Phase != Pending {
		return false
	}
	t.snap.Phase = phase
	t.snap.Message = message
	t.snap.Since = t.clock.Now()
	return true
}
