// internal/ledger/postgres.go
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/artmarket-backend/internal/models"
)

// HoldingAccountID is the well-known identity of the marketplace holding
// account row.
var HoldingAccountID = uuid.MustParse("00000000-0000-0000-0000-00000000f0fd")

// PostgresLedger keeps balances in an accounts table and journals every
// movement as a ledger entry. Each primitive runs in one database
// transaction so concurrent API calls cannot observe a half-applied move.
type PostgresLedger struct {
	db *gorm.DB
}

func NewPostgresLedger(db *gorm.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Deposit(to uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := credit(tx, to, amount); err != nil {
			return err
		}
		return journal(tx, models.LedgerEntryDeposit, nil, &to, amount)
	})
}

func (l *PostgresLedger) Escrow(from uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("identity = ? AND balance >= ?", from, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("escrow debit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		if err := credit(tx, HoldingAccountID, amount); err != nil {
			return err
		}
		holding := HoldingAccountID
		return journal(tx, models.LedgerEntryEscrow, &from, &holding, amount)
	})
}

func (l *PostgresLedger) Pay(to uuid.UUID, amount int64) error {
	if amount < 0 {
		return ErrNonPositiveAmount
	}
	if amount == 0 {
		return nil
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("identity = ? AND balance >= ?", HoldingAccountID, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("payout debit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientHolding
		}
		if err := credit(tx, to, amount); err != nil {
			return err
		}
		holding := HoldingAccountID
		return journal(tx, models.LedgerEntryPayout, &holding, &to, amount)
	})
}

func (l *PostgresLedger) Balance(of uuid.UUID) (int64, error) {
	var account models.Account
	if err := l.db.First(&account, "identity = ?", of).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("balance lookup: %w", err)
	}
	return account.Balance, nil
}

func (l *PostgresLedger) HoldingBalance() (int64, error) {
	return l.Balance(HoldingAccountID)
}

// credit upserts the account row, adding amount to its balance.
func credit(tx *gorm.DB, identity uuid.UUID, amount int64) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("accounts.balance + ?", amount)}),
	}).Create(&models.Account{Identity: identity, Balance: amount}).Error
	if err != nil {
		return fmt.Errorf("credit %s: %w", identity, err)
	}
	return nil
}

func journal(tx *gorm.DB, kind models.LedgerEntryKind, from, to *uuid.UUID, amount int64) error {
	entry := &models.LedgerEntry{
		Kind:         kind,
		FromIdentity: from,
		ToIdentity:   to,
		Amount:       amount,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("journal %s entry: %w", kind, err)
	}
	return nil
}
