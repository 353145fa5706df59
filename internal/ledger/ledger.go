// internal/ledger/ledger.go
package ledger

import (
	"errors"

	"github.com/google/uuid"
)

// Ledger tracks account balances and the marketplace holding account.
// Escrow and Pay satisfy the settlement engine's treasury contract;
// Deposit and Balance serve the payment surface.
type Ledger interface {
	Deposit(to uuid.UUID, amount int64) error
	Escrow(from uuid.UUID, amount int64) error
	Pay(to uuid.UUID, amount int64) error
	Balance(of uuid.UUID) (int64, error)
	HoldingBalance() (int64, error)
}

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrInsufficientHolding = errors.New("holding account cannot cover payout")
)
