package services

import (
	"context"
	"fmt"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// maxDeposit caps a single top-up.
var maxDeposit = decimal.NewFromInt(10000)

type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, *models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
}

type walletService struct {
	store repositories.Store
}

func NewWalletService(store repositories.Store) WalletService {
	return &walletService{store: store}
}

func (s *walletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := s.store.Repos().Wallets.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrWalletNotFound
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return wallet, nil
}

// Deposit credits the wallet and appends a DEPOSIT ledger entry in one transaction.
func (s *walletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Wallet, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, common.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, nil, common.NewValidationError("amount", "must have at most two decimal places")
	}
	if amount.GreaterThan(maxDeposit) {
		return nil, nil, common.NewValidationError("amount", "must not exceed "+maxDeposit.StringFixed(2))
	}

	var wallet *models.Wallet
	var txn *models.Transaction
	err := s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		wallet, err = repos.Wallets.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return common.ErrWalletNotFound
			}
			return fmt.Errorf("lock wallet: %w", err)
		}

		balance, err := repos.Wallets.AdjustBalance(ctx, wallet.ID, amount)
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}
		wallet.Balance = balance

		txn = &models.Transaction{
			ID:       uuid.New(),
			WalletID: wallet.ID,
			Amount:   amount,
			Type:     models.TransactionTypeDeposit,
		}
		if err := repos.Wallets.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("record deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Ctx(ctx).Info().Str("wallet_id", wallet.ID.String()).Str("amount", amount.StringFixed(2)).
		Str("balance", wallet.Balance.StringFixed(2)).Msg("wallet deposit")
	return wallet, txn, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Repos().Wallets.ListTransactions(ctx, wallet.ID, limit, offset)
}
