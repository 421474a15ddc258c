package repositories

import (
	"context"
	"fmt"

	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// UpdateStatus moves an order from one status to another and reports whether
	// the row was still in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	// SetFeedback stores feedback unless some is already present.
	SetFeedback(ctx context.Context, id uuid.UUID, feedback string) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error)
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, customer_id, food_truck_id, placed_by_id, type, status, pickup_date_time, feedback, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.CustomerID, &order.FoodTruckID, &order.PlacedByID, &order.Type, &order.Status,
		&order.PickupDateTime, &order.Feedback, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, food_truck_id, placed_by_id, type, status, pickup_date_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.CustomerID, order.FoodTruckID, order.PlacedByID, order.Type,
		order.Status, order.PickupDateTime)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepo) SetFeedback(ctx context.Context, id uuid.UUID, feedback string) (bool, error) {
	query := `
		UPDATE orders
		SET feedback = $1, updated_at = NOW()
		WHERE id = $2 AND feedback IS NULL
	`
	tag, err := r.db.Exec(ctx, query, feedback, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepo) ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID, filter *models.OrderFilter) ([]*models.Order, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE food_truck_id = $1`
	args := []any{foodTruckID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}
