package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypePayment TransactionType = "PAYMENT"
)

// Transaction is an append-only wallet ledger entry. Payments carry a negative amount.
type Transaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	WalletID  uuid.UUID       `json:"wallet_id" db:"wallet_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Type      TransactionType `json:"type" db:"type"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
