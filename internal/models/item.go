package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	FoodTruckID uuid.UUID       `json:"food_truck_id" db:"food_truck_id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       *string         `json:"image" db:"image"` // object name in the media bucket
	ImageURL    string          `json:"image_url,omitempty" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Categories  []*Category     `json:"categories,omitempty" db:"-"`
}

// ItemFilter narrows item listings
type ItemFilter struct {
	FoodTruckID *uuid.UUID `json:"food_truck_id,omitempty"` // Menu of one truck
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`   // Items tagged with a category
	Query       string     `json:"query,omitempty"`         // Name search
	Limit       int        `json:"limit,omitempty"`         // Page size (default: 50)
	Offset      int        `json:"offset,omitempty"`
}
