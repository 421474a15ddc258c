package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartSchemaVersion is bumped whenever the persisted cart layout changes.
const CartSchemaVersion = 1

// ErrDifferentFoodTruck is returned when an item from a second truck is added to a cart.
var ErrDifferentFoodTruck = errors.New("cart already holds items from a different food truck")

// CartLine is an item snapshot plus the wanted quantity.
type CartLine struct {
	ItemID      uuid.UUID       `json:"item_id"`
	FoodTruckID uuid.UUID       `json:"food_truck_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of lines, unique by item, all from one food truck.
// The zero value is an empty cart.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of item in the cart. An item already present has its
// quantity increased. Items from another truck are refused and the cart is left as is.
func (c *Cart) Add(item *Item, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	if len(c.lines) > 0 && c.lines[0].FoodTruckID != item.FoodTruckID {
		return ErrDifferentFoodTruck
	}
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{
		ItemID:      item.ID,
		FoodTruckID: item.FoodTruckID,
		Name:        item.Name,
		Slug:        item.Slug,
		Price:       item.Price,
		Image:       item.Image,
		Quantity:    quantity,
	})
	return nil
}

// Remove drops the line for itemID. Removing an absent item is a no-op.
func (c *Cart) Remove(itemID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity of an existing line; below 1 removes it.
// It reports whether the item was in the cart.
func (c *Cart) SetQuantity(itemID uuid.UUID, quantity int) bool {
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if quantity < 1 {
			c.Remove(itemID)
		} else {
			c.lines[i].Quantity = quantity
		}
		return true
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// FoodTruckID is the truck every line belongs to, or uuid.Nil for an empty cart.
func (c *Cart) FoodTruckID() uuid.UUID {
	if len(c.lines) == 0 {
		return uuid.Nil
	}
	return c.lines[0].FoodTruckID
}

// OrderLines strips the snapshot down to what order placement needs.
func (c *Cart) OrderLines() []OrderLine {
	out := make([]OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, OrderLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}

// OrderLine is an (item, quantity) pair submitted for placement.
type OrderLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// CartSnapshot is the persisted form of a cart.
type CartSnapshot struct {
	Version   int        `json:"version"`
	Role      Role       `json:"role"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) Snapshot(role Role, ownerID uuid.UUID, now time.Time) CartSnapshot {
	return CartSnapshot{
		Version:   CartSchemaVersion,
		Role:      role,
		OwnerID:   ownerID,
		Lines:     c.Lines(),
		UpdatedAt: now,
	}
}

// RestoreCart rebuilds a cart from a snapshot, rejecting snapshots that break cart invariants.
func RestoreCart(s CartSnapshot) (*Cart, error) {
	if s.Version != CartSchemaVersion {
		return nil, fmt.Errorf("unsupported cart version %d", s.Version)
	}
	cart := &Cart{}
	seen := make(map[uuid.UUID]bool, len(s.Lines))
	for _, l := range s.Lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("cart line %s has quantity %d", l.ItemID, l.Quantity)
		}
		if seen[l.ItemID] {
			return nil, fmt.Errorf("cart line %s appears twice", l.ItemID)
		}
		if len(cart.lines) > 0 && cart.lines[0].FoodTruckID != l.FoodTruckID {
			return nil, ErrDifferentFoodTruck
		}
		seen[l.ItemID] = true
		cart.lines = append(cart.lines, l)
	}
	return cart, nil
}
