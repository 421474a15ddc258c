package repositories

import (
	"context"

	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	// GetByUserIDForUpdate locks the wallet row until the surrounding transaction ends.
	GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	AdjustBalance(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
}

type walletRepo struct {
	db DBTX
}

func NewWalletRepo(db DBTX) WalletRepository {
	return &walletRepo{db: db}
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	if err := row.Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.CreatedAt, &wallet.UpdatedAt); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, wallet.ID, wallet.UserID, wallet.Balance)
	return err
}

func (r *walletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`
	return scanWallet(r.db.QueryRow(ctx, query, userID))
}

func (r *walletRepo) GetByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`
	return scanWallet(r.db.QueryRow(ctx, query, userID))
}

// AdjustBalance adds delta (negative for debits) and returns the new balance.
// The balance >= 0 check constraint rejects overdrafts.
func (r *walletRepo) AdjustBalance(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, delta, walletID).Scan(&balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *walletRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, amount, type, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, txn.ID, txn.WalletID, txn.Amount, txn.Type)
	return err
}

func (r *walletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT id, wallet_id, amount, type, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		if err := rows.Scan(&txn.ID, &txn.WalletID, &txn.Amount, &txn.Type, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
