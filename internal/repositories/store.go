package repositories

import (
	"context"
	"fmt"
)

// Repositories bundles every repository bound to the same connection or transaction.
type Repositories struct {
	Users      UserRepository
	Wallets    WalletRepository
	FoodTrucks FoodTruckRepository
	Schedules  ScheduleRepository
	Categories CategoryRepository
	Items      ItemRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Invoices   InvoiceRepository
}

func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users:      NewUserRepo(db),
		Wallets:    NewWalletRepo(db),
		FoodTrucks: NewFoodTruckRepo(db),
		Schedules:  NewScheduleRepo(db),
		Categories: NewCategoryRepo(db),
		Items:      NewItemRepo(db),
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
		Invoices:   NewInvoiceRepo(db),
	}
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() *Repositories
	ExecTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type store struct {
	db    TxBeginner
	repos *Repositories
}

func NewStore(db TxBeginner) Store {
	return &store{db: db, repos: NewRepositories(db)}
}

// Repos returns repositories bound to the pool, outside any transaction.
func (s *store) Repos() *Repositories {
	return s.repos
}

// ExecTx runs fn with repositories bound to a fresh transaction. The transaction
// commits when fn returns nil and rolls back otherwise; fn's error is returned as is.
func (s *store) ExecTx(ctx context.Context, fn func(repos *Repositories) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
