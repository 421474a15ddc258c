package repositories

import (
	"context"

	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FoodTruckRepository interface {
	Create(ctx context.Context, truck *models.FoodTruck) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error)
	GetBySlug(ctx context.Context, slug string) (*models.FoodTruck, error)
	List(ctx context.Context) ([]*models.FoodTruck, error)
}

type foodTruckRepo struct {
	db DBTX
}

func NewFoodTruckRepo(db DBTX) FoodTruckRepository {
	return &foodTruckRepo{db: db}
}

const foodTruckColumns = `id, slug, name, description, location, phone_no, image, created_at, updated_at`

func scanFoodTruck(row pgx.Row) (*models.FoodTruck, error) {
	truck := &models.FoodTruck{}
	err := row.Scan(&truck.ID, &truck.Slug, &truck.Name, &truck.Description, &truck.Location, &truck.PhoneNo,
		&truck.Image, &truck.CreatedAt, &truck.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return truck, nil
}

func (r *foodTruckRepo) Create(ctx context.Context, truck *models.FoodTruck) error {
	query := `
		INSERT INTO food_trucks (id, slug, name, description, location, phone_no, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, truck.ID, truck.Slug, truck.Name, truck.Description, truck.Location, truck.PhoneNo, truck.Image)
	return err
}

func (r *foodTruckRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	query := `SELECT ` + foodTruckColumns + ` FROM food_trucks WHERE id = $1`
	return scanFoodTruck(r.db.QueryRow(ctx, query, id))
}

func (r *foodTruckRepo) GetBySlug(ctx context.Context, slug string) (*models.FoodTruck, error) {
	query := `SELECT ` + foodTruckColumns + ` FROM food_trucks WHERE slug = $1`
	return scanFoodTruck(r.db.QueryRow(ctx, query, slug))
}

func (r *foodTruckRepo) List(ctx context.Context) ([]*models.FoodTruck, error) {
	query := `SELECT ` + foodTruckColumns + ` FROM food_trucks ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []*models.FoodTruck
	for rows.Next() {
		truck, err := scanFoodTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}
	return trucks, rows.Err()
}
