package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"cleanify-client/internal/model"
)

var (
	ErrAlreadyVoted          = errors.New("already voted on this report")
	ErrMonotonicityViolation = errors.New("submission count went backwards")
)

// Ledger tracks idempotent per-session interactions for one display name:
// which reports the user already voted on and the badge progression. Votes
// are append-only; there is no unvote. The ledger is checked before any
// vote request goes on the wire, so a double click never issues two
// requests.
//
// Identity is the user-chosen display name, not a server identity, so two
// devices sharing a name share progression. Known, accepted limitation.
type Ledger struct {
	store Store
	name  string

	mu    sync.Mutex
	voted map[string]int // report id -> last count of record from the backend
	count int            // reports submitted, monotonically non-decreasing
}

func NewLedger(store Store, name string) (*Ledger, error) {
	l := &Ledger{
		store: store,
		name:  name,
		voted: make(map[string]int),
	}

	if raw, ok, err := store.Get(l.votedKey()); err != nil {
		return nil, fmt.Errorf("load voted set: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &l.voted); err != nil {
			// Corrupt storage defaults to empty rather than failing startup.
			l.voted = make(map[string]int)
		}
	}

	if raw, ok, err := store.Get(l.countKey()); err != nil {
		return nil, fmt.Errorf("load submission count: %w", err)
	} else if ok {
		if n, err := strconv.Atoi(raw); err == nil {
			l.count = n
		}
	}

	return l, nil
}

func (l *Ledger) votedKey() string { return "user:" + l.name + ":voted" }
func (l *Ledger) countKey() string { return "user:" + l.name + ":reports" }

func (l *Ledger) HasVoted(reportID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.voted[reportID]
	return ok
}

// RecordVote marks a report as voted on and remembers the count of record
// returned by the backend. A second call for the same report is a no-op
// returning ErrAlreadyVoted.
func (l *Ledger) RecordVote(reportID string, newVoteCount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.voted[reportID]; ok {
		return ErrAlreadyVoted
	}

	l.voted[reportID] = newVoteCount
	data, err := json.Marshal(l.voted)
	if err != nil {
		return err
	}
	return l.store.Set(l.votedKey(), string(data))
}

// LastVoteCount returns the vote count of record seen when this session
// voted on the report, for answering duplicate attempts without a fetch.
func (l *Ledger) LastVoteCount(reportID string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.voted[reportID]
	return n, ok
}

// CurrentBadge derives the tier from the stored submission count.
func (l *Ledger) CurrentBadge() model.Badge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return model.NewBadge(l.count)
}

// RecordSubmission stores the backend's updated count and recomputes the
// tier. A count smaller than the stored one is an out-of-order response
// from a concurrent submission: prior state is kept and
// ErrMonotonicityViolation returned.
func (l *Ledger) RecordSubmission(newCount int) (model.Badge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if newCount < l.count {
		return model.NewBadge(l.count), ErrMonotonicityViolation
	}

	l.count = newCount
	if err := l.store.Set(l.countKey(), strconv.Itoa(newCount)); err != nil {
		return model.NewBadge(l.count), err
	}
	return model.NewBadge(newCount), nil
}

// Manager hands out one Ledger per display name, backed by shared storage.
type Manager struct {
	store Store

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:   store,
		ledgers: make(map[string]*Ledger),
	}
}

func (m *Manager) Ledger(name string) (*Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.ledgers[name]; ok {
		return l, nil
	}
	l, err := NewLedger(m.store, name)
	if err != nil {
		return nil, err
	}
	m.ledgers[name] = l
	return l, nil
}
