package repositories

import (
	"context"

	"foodtruck/internal/models"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error)
}

type orderItemRepo struct {
	db DBTX
}

func NewOrderItemRepo(db DBTX) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, item_id, item_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.ItemID, item.ItemName, item.UnitPrice, item.Quantity)
	return err
}

func (r *orderItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, item_id, item_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY item_name
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*models.OrderItem)
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.ItemName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, rows.Err()
}
