package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CardDetails are checked for shape only. They are never stored or charged.
type CardDetails struct {
	Number      string `json:"number"`
	CVV         string `json:"cvv"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	HolderName  string `json:"holder_name"`
}

type SettlementRequest struct {
	Method        models.PaymentMethod
	Amount        decimal.Decimal
	WalletOwnerID uuid.UUID
	Card          *CardDetails
}

type SettlementResult struct {
	Method        models.PaymentMethod `json:"method"`
	Amount        decimal.Decimal      `json:"amount"`
	WalletID      *uuid.UUID           `json:"wallet_id,omitempty"`
	Balance       *decimal.Decimal     `json:"balance,omitempty"`
	TransactionID *uuid.UUID           `json:"transaction_id,omitempty"`
}

type SettlementService interface {
	// Settle applies the payment side effect using repos, which must be bound
	// to the caller's transaction.
	Settle(ctx context.Context, repos *repositories.Repositories, req SettlementRequest) (*SettlementResult, error)
}

type settlementService struct {
	now func() time.Time
}

func NewSettlementService() SettlementService {
	return &settlementService{now: time.Now}
}

func (s *settlementService) Settle(ctx context.Context, repos *repositories.Repositories, req SettlementRequest) (*SettlementResult, error) {
	if req.Amount.IsNegative() {
		return nil, common.NewValidationError("amount", "must not be negative")
	}

	switch {
	case req.Method == models.PaymentMethodWallet:
		return s.settleWallet(ctx, repos, req)
	case req.Method == models.PaymentMethodCash:
		return &SettlementResult{Method: req.Method, Amount: req.Amount}, nil
	case req.Method.IsCard():
		if err := ValidateCard(req.Card, s.now()); err != nil {
			return nil, err
		}
		return &SettlementResult{Method: req.Method, Amount: req.Amount}, nil
	default:
		return nil, common.NewValidationError("payment_method", fmt.Sprintf("unsupported payment method %q", req.Method))
	}
}

func (s *settlementService) settleWallet(ctx context.Context, repos *repositories.Repositories, req SettlementRequest) (*SettlementResult, error) {
	wallet, err := repos.Wallets.GetByUserIDForUpdate(ctx, req.WalletOwnerID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrWalletNotFound
		}
		return nil, fmt.Errorf("lock wallet: %w", err)
	}

	if wallet.Balance.LessThan(req.Amount) {
		return nil, common.ErrInsufficientFunds
	}

	debit := req.Amount.Neg()
	balance, err := repos.Wallets.AdjustBalance(ctx, wallet.ID, debit)
	if err != nil {
		return nil, fmt.Errorf("debit wallet: %w", err)
	}

	txn := &models.Transaction{
		ID:       uuid.New(),
		WalletID: wallet.ID,
		Amount:   debit,
		Type:     models.TransactionTypePayment,
	}
	if err := repos.Wallets.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("record wallet payment: %w", err)
	}

	log.Ctx(ctx).Debug().Str("wallet_id", wallet.ID.String()).Str("amount", req.Amount.StringFixed(2)).
		Str("balance", balance.StringFixed(2)).Msg("wallet debited")

	return &SettlementResult{
		Method:        req.Method,
		Amount:        req.Amount,
		WalletID:      &wallet.ID,
		Balance:       &balance,
		TransactionID: &txn.ID,
	}, nil
}

// ValidateCard checks a card's format: a 16 digit number (spaces and dashes
// allowed), a 3 digit CVV, an expiry month that has not ended yet and a holder name.
func ValidateCard(card *CardDetails, now time.Time) error {
	if card == nil {
		return fmt.Errorf("%w: card details are required", common.ErrInvalidCard)
	}

	number := strings.NewReplacer(" ", "", "-", "").Replace(card.Number)
	if len(number) != 16 || !allDigits(number) {
		return fmt.Errorf("%w: card number must have 16 digits", common.ErrInvalidCard)
	}
	if len(card.CVV) != 3 || !allDigits(card.CVV) {
		return fmt.Errorf("%w: cvv must have 3 digits", common.ErrInvalidCard)
	}
	if card.ExpiryMonth < 1 || card.ExpiryMonth > 12 {
		return fmt.Errorf("%w: expiry month must be between 1 and 12", common.ErrInvalidCard)
	}
	year := card.ExpiryYear
	if year < 100 {
		year += 2000
	}
	// valid through the last day of the expiry month
	expiresAt := time.Date(year, time.Month(card.ExpiryMonth)+1, 1, 0, 0, 0, 0, now.Location())
	if !now.Before(expiresAt) {
		return fmt.Errorf("%w: card has expired", common.ErrInvalidCard)
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return fmt.Errorf("%w: card holder name is required", common.ErrInvalidCard)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
