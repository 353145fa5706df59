// internal/models/ledger.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a ledger balance keyed by identity. The marketplace holding
// account is an ordinary row under a well-known identity.
type Account struct {
	Identity  uuid.UUID `json:"identity" gorm:"type:uuid;primaryKey"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LedgerEntry is the immutable journal of every balance movement.
type LedgerEntry struct {
	BaseModel
	Kind         LedgerEntryKind `json:"kind" gorm:"type:varchar(20);not null;index"`
	FromIdentity *uuid.UUID      `json:"from_identity" gorm:"type:uuid;index"`
	ToIdentity   *uuid.UUID      `json:"to_identity" gorm:"type:uuid;index"`
	Amount       int64           `json:"amount" gorm:"not null"`
	Metadata     JSONB           `json:"metadata" gorm:"type:jsonb"`
}

// Deposit tracks a stripe top-up from intent creation to ledger credit.
type Deposit struct {
	BaseModel
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	StripeIntentID string        `json:"stripe_intent_id" gorm:"size:255;uniqueIndex"`
	Amount         int64         `json:"amount" gorm:"not null"`
	Status         DepositStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CompletedAt    *time.Time    `json:"completed_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
