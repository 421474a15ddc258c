package repositories

import (
	"context"

	"foodtruck/internal/models"

	"github.com/google/uuid"
)

type ScheduleRepository interface {
	ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) ([]models.ScheduleEntry, error)
	DeleteByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) error
	Create(ctx context.Context, entry *models.ScheduleEntry) error
}

type scheduleRepo struct {
	db DBTX
}

func NewScheduleRepo(db DBTX) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) ListByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) ([]models.ScheduleEntry, error) {
	query := `
		SELECT id, food_truck_id, day, start_minute, end_minute
		FROM food_truck_schedules
		WHERE food_truck_id = $1
		ORDER BY day
	`
	rows, err := r.db.Query(ctx, query, foodTruckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.FoodTruckID, &e.Day, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *scheduleRepo) DeleteByFoodTruck(ctx context.Context, foodTruckID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM food_truck_schedules WHERE food_truck_id = $1`, foodTruckID)
	return err
}

func (r *scheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	query := `
		INSERT INTO food_truck_schedules (id, food_truck_id, day, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.FoodTruckID, entry.Day, entry.StartTime, entry.EndTime)
	return err
}
