package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusRejected       OrderStatus = "REJECTED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

type OrderType string

const (
	OrderTypePickup   OrderType = "PICKUP"
	OrderTypeDelivery OrderType = "DELIVERY"
)

func (t OrderType) Valid() bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodWallet     PaymentMethod = "WALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCash, PaymentMethodWallet:
		return true
	}
	return false
}

func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// orderTransitions lists the statuses reachable from each status, per order type.
var orderTransitions = map[OrderType]map[OrderStatus][]OrderStatus{
	OrderTypePickup: {
		OrderStatusPending:        {OrderStatusPreparing, OrderStatusRejected, OrderStatusCancelled},
		OrderStatusPreparing:      {OrderStatusReadyForPickup},
		OrderStatusReadyForPickup: {OrderStatusCompleted},
	},
	OrderTypeDelivery: {
		OrderStatusPending:   {OrderStatusPreparing, OrderStatusRejected, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusDelivered},
		OrderStatusDelivered: {OrderStatusCompleted},
	},
}

// CanTransition reports whether an order of type t may move from one status to another.
func CanTransition(t OrderType, from, to OrderStatus) bool {
	for _, next := range orderTransitions[t][from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusOptions is the progression a manager can pick from once an order is accepted.
func StatusOptions(t OrderType) []OrderStatus {
	if t == OrderTypeDelivery {
		return []OrderStatus{OrderStatusPreparing, OrderStatusDelivered, OrderStatusCompleted}
	}
	return []OrderStatus{OrderStatusPreparing, OrderStatusReadyForPickup, OrderStatusCompleted}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected || s == OrderStatusCancelled
}

// IsFulfilled reports whether the food has been handed over or is waiting for pickup.
func (s OrderStatus) IsFulfilled() bool {
	return s == OrderStatusReadyForPickup || s == OrderStatusDelivered || s == OrderStatusCompleted
}

type Order struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	CustomerID     uuid.UUID    `json:"customer_id" db:"customer_id"`
	FoodTruckID    uuid.UUID    `json:"food_truck_id" db:"food_truck_id"`
	PlacedByID     *uuid.UUID   `json:"placed_by_id,omitempty" db:"placed_by_id"` // staff member for assisted orders
	Type           OrderType    `json:"type" db:"type"`
	Status         OrderStatus  `json:"status" db:"status"`
	PickupDateTime *time.Time   `json:"pickup_date_time" db:"pickup_date_time"`
	Feedback       *string      `json:"feedback" db:"feedback"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
	Items          []*OrderItem `json:"items,omitempty" db:"-"`
	Invoice        *Invoice     `json:"invoice,omitempty" db:"-"`
}

// Total sums the snapshotted line prices.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderFilter is used by truck staff to page through their orders
type OrderFilter struct {
	Status *OrderStatus `json:"status,omitempty"` // Only orders in this status
	Limit  int          `json:"limit,omitempty"`  // Page size (default: 50)
	Offset int          `json:"offset,omitempty"`
}
