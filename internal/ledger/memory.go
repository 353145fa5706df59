// internal/ledger/memory.go
package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryLedger keeps balances in process. Used by tests and memory-backed
// deployments.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	holding  int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[uuid.UUID]int64)}
}

func (l *MemoryLedger) Deposit(to uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] += amount
	return nil
}

// Escrow atomically debits from and credits the holding account.
func (l *MemoryLedger) Escrow(from uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.holding += amount
	return nil
}

// Pay moves funds out of the holding account. A zero amount is a no-op so
// that rounded-down shares settle cleanly.
func (l *MemoryLedger) Pay(to uuid.UUID, amount int64) error {
	if amount < 0 {
		return ErrNonPositiveAmount
	}
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.holding < amount {
		return ErrInsufficientHolding
	}
	l.holding -= amount
	l.balances[to] += amount
	return nil
}

func (l *MemoryLedger) Balance(of uuid.UUID) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[of], nil
}

func (l *MemoryLedger) HoldingBalance() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holding, nil
}
