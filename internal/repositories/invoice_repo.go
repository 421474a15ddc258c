package repositories

import (
	"context"

	"foodtruck/internal/models"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*models.Invoice, error)
}

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, order_id, amount, total_amount, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.OrderID, invoice.Amount, invoice.TotalAmount, invoice.PaymentMethod)
	return err
}

func (r *invoiceRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, order_id, amount, total_amount, payment_method, created_at
		FROM invoices
		WHERE order_id = $1
	`
	err := r.db.QueryRow(ctx, query, orderID).Scan(&invoice.ID, &invoice.OrderID, &invoice.Amount, &invoice.TotalAmount,
		&invoice.PaymentMethod, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*models.Invoice, error) {
	query := `
		SELECT id, order_id, amount, total_amount, payment_method, created_at
		FROM invoices
		WHERE order_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*models.Invoice)
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.OrderID, &invoice.Amount, &invoice.TotalAmount,
			&invoice.PaymentMethod, &invoice.CreatedAt); err != nil {
			return nil, err
		}
		result[invoice.OrderID] = invoice
	}
	return result, rows.Err()
}
