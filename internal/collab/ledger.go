package collab

import (
	"sync"

	"github.com/dshills/linemark/internal/engine/annotation"
	"github.com/dshills/linemark/internal/engine/reservation"
)

// sharedLedger guards a side's ledger so the peer can check conflicts
// without taking the side's lock.
type sharedLedger struct {
	mu     sync.Mutex
	ledger *reservation.Ledger
}

func newSharedLedger(l *reservation.Ledger) *sharedLedger {
	return &sharedLedger{ledger: l}
}

// CheckConflict implements reservation.Checker.
func (s *sharedLedger) CheckConflict(line int, author annotation.Author) reservation.Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CheckConflict(line, author)
}

func (s *sharedLedger) reserve(line int, author annotation.Author) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Reserve(line, author)
}

func (s *sharedLedger) shift(from, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Shift(from, delta)
}

func (s *sharedLedger) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
}

func (s *sharedLedger) all() []reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.All()
}

var _ reservation.Checker = (*sharedLedger)(nil)
