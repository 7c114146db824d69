package service

import "sync"

// TicketLocks serializes lifecycle operations per ticket id. Both the ticket
// engine and the parts sub-flow share one instance, so two clients cannot
// interleave transitions on the same ticket (including double requestParts
// submissions).
type TicketLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTicketLocks initializes the lock table.
func NewTicketLocks() *TicketLocks {
	return &TicketLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the ticket and returns the release func.
func (l *TicketLocks) Acquire(ticketID string) func() {
	l.mu.Lock()
	m, ok := l.locks[ticketID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ticketID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
