package models

import (
	"time"

	"github.com/google/uuid"
)

type FoodTruck struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Slug        string          `json:"slug" db:"slug"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Location    string          `json:"location" db:"location"`
	PhoneNo     string          `json:"phone_no" db:"phone_no"`
	Image       *string         `json:"image" db:"image"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Schedule    []ScheduleEntry `json:"schedule,omitempty" db:"-"`
}
