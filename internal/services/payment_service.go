// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/javajoker/artmarket-backend/internal/config"
	"github.com/javajoker/artmarket-backend/internal/ledger"
	"github.com/javajoker/artmarket-backend/internal/models"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

// PaymentService handles ledger top-ups: a stripe PaymentIntent is created
// for the caller, and once it succeeds the amount is credited to their
// ledger balance, where purchases and bids can escrow it.
type PaymentService struct {
	db     *gorm.DB
	ledger ledger.Ledger
	cfg    *config.Config
}

type CreateDepositRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type DepositResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, l ledger.Ledger, cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		ledger: l,
		cfg:    cfg,
	}
}

func (s *PaymentService) CreateDeposit(userID uuid.UUID, req *CreateDepositRequest) (*DepositResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(s.cfg.Payment.Currency),
	}
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	deposit := &models.Deposit{
		UserID:         userID,
		StripeIntentID: pi.ID,
		Amount:         req.Amount,
		Status:         models.DepositStatusPending,
	}
	if err := s.db.Create(deposit).Error; err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	return &DepositResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmDeposit checks the intent with stripe and credits the ledger once.
// A deposit already marked completed is not credited again.
func (s *PaymentService) ConfirmDeposit(userID uuid.UUID, req *ConfirmDepositRequest) (*models.Deposit, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var deposit models.Deposit
	if err := s.db.Where("stripe_intent_id = ?", req.PaymentIntentID).First(&deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("deposit not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if deposit.UserID != userID {
		return nil, errors.New("deposit belongs to another user")
	}
	if deposit.Status == models.DepositStatusCompleted {
		return &deposit, nil
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := s.ledger.Deposit(deposit.UserID, deposit.Amount); err != nil {
			return nil, fmt.Errorf("failed to credit ledger: %w", err)
		}
		now := time.Now()
		deposit.Status = models.DepositStatusCompleted
		deposit.CompletedAt = &now

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusProcessing:
		deposit.Status = models.DepositStatusPending

	default:
		deposit.Status = models.DepositStatusFailed
	}

	if err := s.db.Save(&deposit).Error; err != nil {
		return nil, fmt.Errorf("failed to update deposit: %w", err)
	}

	return &deposit, nil
}

func (s *PaymentService) GetBalance(userID uuid.UUID) (map[string]interface{}, error) {
	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return map[string]interface{}{
		"balance":  balance,
		"currency": s.cfg.Payment.Currency,
	}, nil
}
