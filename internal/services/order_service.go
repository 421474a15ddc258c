package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const maxFeedbackLength = 2000

// PlaceOrderRequest is a checkout submitted by a customer, or by staff on a customer's behalf.
type PlaceOrderRequest struct {
	CustomerID     uuid.UUID
	PlacedByID     *uuid.UUID
	PlacedAtTruck  *uuid.UUID // truck of the staff member in PlacedByID
	Lines          []models.OrderLine
	Amount         *decimal.Decimal // total the client displayed, checked against the computed one
	Type           models.OrderType
	PaymentMethod  models.PaymentMethod
	PickupDateTime *time.Time
	Card           *CardDetails
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListTruckOrders(ctx context.Context, truckID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error)
	CancelOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	ApproveOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	RejectOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	AddFeedback(ctx context.Context, actor models.Actor, id uuid.UUID, feedback string) (*models.Order, error)
	StatusOptions(orderType models.OrderType) []models.OrderStatus
}

type orderService struct {
	store      repositories.Store
	settlement SettlementService
	location   *time.Location
	now        func() time.Time
}

// NewOrderService evaluates pickup times against truck schedules in loc.
func NewOrderService(store repositories.Store, settlement SettlementService, loc *time.Location) OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &orderService{store: store, settlement: settlement, location: loc, now: time.Now}
}

func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Lines) == 0 {
		return nil, common.ErrEmptyCart
	}
	if !req.Type.Valid() {
		return nil, common.NewValidationError("order_type", fmt.Sprintf("unknown order type %q", req.Type))
	}
	if req.Type == models.OrderTypePickup && req.PickupDateTime == nil {
		return nil, common.ErrMissingPickupTime
	}
	if !req.PaymentMethod.Valid() {
		return nil, common.NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}
	lines, err := mergeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New(),
		CustomerID:     req.CustomerID,
		PlacedByID:     req.PlacedByID,
		Type:           req.Type,
		Status:         models.OrderStatusPending,
		PickupDateTime: req.PickupDateTime,
	}

	err = s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		customer, err := repos.Users.GetByID(ctx, req.CustomerID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return common.ErrCustomerNotFound
			}
			return fmt.Errorf("load customer: %w", err)
		}
		if customer.Role != models.RoleCustomer {
			return common.ErrCustomerNotFound
		}

		items, err := s.loadOrderItems(ctx, repos, lines)
		if err != nil {
			return err
		}
		order.FoodTruckID = items[0].FoodTruckID
		if req.PlacedByID != nil && (req.PlacedAtTruck == nil || *req.PlacedAtTruck != order.FoodTruckID) {
			return common.ErrForbidden
		}

		schedule, err := repos.Schedules.ListByFoodTruck(ctx, order.FoodTruckID)
		if err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}
		when := s.now()
		if req.PickupDateTime != nil {
			when = *req.PickupDateTime
		}
		if !IsOpenAt(schedule, when.In(s.location)) {
			return common.ErrClosedForPickupTime
		}

		for i, line := range lines {
			order.Items = append(order.Items, &models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ItemID:    line.ItemID,
				ItemName:  items[i].Name,
				UnitPrice: items[i].Price,
				Quantity:  line.Quantity,
			})
		}
		total := order.Total()
		if req.Amount != nil && !req.Amount.Equal(total) {
			return fmt.Errorf("%w: expected %s, got %s", common.ErrAmountMismatch, total.StringFixed(2), req.Amount.StringFixed(2))
		}

		if _, err := s.settlement.Settle(ctx, repos, SettlementRequest{
			Method:        req.PaymentMethod,
			Amount:        total,
			WalletOwnerID: customer.ID,
			Card:          req.Card,
		}); err != nil {
			return err
		}

		if err := repos.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, item := range order.Items {
			if err := repos.OrderItems.Create(ctx, item); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		order.Invoice = &models.Invoice{
			ID:            uuid.New(),
			OrderID:       order.ID,
			Amount:        total,
			TotalAmount:   total,
			PaymentMethod: req.PaymentMethod,
		}
		if err := repos.Invoices.Create(ctx, order.Invoice); err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		if common.IsDomainError(err) {
			return nil, err
		}
		log.Ctx(ctx).Error().Err(err).Str("customer_id", req.CustomerID.String()).Msg("order placement failed")
		return nil, fmt.Errorf("%w: %v", common.ErrOrderCreationFailed, err)
	}

	now := s.now()
	order.CreatedAt, order.UpdatedAt, order.Invoice.CreatedAt = now, now, now

	log.Ctx(ctx).Info().
		Str("order_id", order.ID.String()).
		Str("customer_id", order.CustomerID.String()).
		Str("food_truck_id", order.FoodTruckID.String()).
		Str("payment_method", string(req.PaymentMethod)).
		Str("total", order.Invoice.TotalAmount.StringFixed(2)).
		Msg("order placed")

	return order, nil
}

// mergeLines folds repeated items into one line and rejects non-positive quantities.
func mergeLines(lines []models.OrderLine) ([]models.OrderLine, error) {
	merged := make([]models.OrderLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, common.NewValidationError("quantity", "must be at least 1")
		}
		if i, ok := index[line.ItemID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

// loadOrderItems returns the items for lines in the same order, all from one truck.
func (s *orderService) loadOrderItems(ctx context.Context, repos *repositories.Repositories, lines []models.OrderLine) ([]*models.Item, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}
	found, err := repos.Items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Item, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]*models.Item, len(lines))
	for i, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrItemNotFound, id)
		}
		if i > 0 && item.FoodTruckID != items[0].FoodTruckID {
			return nil, common.ErrDifferentRestaurant
		}
		items[i] = item
	}
	return items, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	repos := s.store.Repos()
	order, err := s.loadVisibleOrder(ctx, repos, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, repos, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	repos := s.store.Repos()
	orders, err := repos.Orders.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := s.hydrate(ctx, repos, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListTruckOrders(ctx context.Context, truckID uuid.UUID, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	repos := s.store.Repos()
	orders, err := repos.Orders.ListByFoodTruck(ctx, truckID, &models.OrderFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list truck orders: %w", err)
	}
	if err := s.hydrate(ctx, repos, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) CancelOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCancelled, func(order *models.Order) error {
		if actor.Role != models.RoleCustomer || order.CustomerID != actor.UserID {
			return common.ErrOrderNotFound
		}
		return nil
	})
}

func (s *orderService) ApproveOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusPreparing, truckStaffOnly(actor))
}

func (s *orderService) RejectOrder(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusRejected, truckStaffOnly(actor))
}

// UpdateStatus moves an accepted order along its type's progression. Rejection
// and cancellation have their own operations.
func (s *orderService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	return s.transition(ctx, id, status, func(order *models.Order) error {
		if err := truckStaffOnly(actor)(order); err != nil {
			return err
		}
		for _, option := range models.StatusOptions(order.Type) {
			if option == status {
				return nil
			}
		}
		return fmt.Errorf("%w: %s is not a %s status", common.ErrInvalidTransition, status, strings.ToLower(string(order.Type)))
	})
}

func (s *orderService) AddFeedback(ctx context.Context, actor models.Actor, id uuid.UUID, feedback string) (*models.Order, error) {
	feedback = strings.TrimSpace(common.SanitizeHTMLElement(feedback))
	if feedback == "" {
		return nil, common.NewValidationError("feedback", "must not be empty")
	}
	if len(feedback) > maxFeedbackLength {
		return nil, common.NewValidationError("feedback", fmt.Sprintf("must be at most %d characters", maxFeedbackLength))
	}

	var order *models.Order
	err := s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return common.ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		if actor.Role != models.RoleCustomer || order.CustomerID != actor.UserID {
			return common.ErrOrderNotFound
		}
		if order.Feedback != nil {
			return common.ErrFeedbackExists
		}
		if !order.Status.IsFulfilled() {
			return common.ErrFeedbackNotAllowed
		}
		ok, err := repos.Orders.SetFeedback(ctx, id, feedback)
		if err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
		if !ok {
			return common.ErrFeedbackExists
		}
		order.Feedback = &feedback
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) StatusOptions(orderType models.OrderType) []models.OrderStatus {
	return models.StatusOptions(orderType)
}

func truckStaffOnly(actor models.Actor) func(*models.Order) error {
	return func(order *models.Order) error {
		if !actor.CanOperate(order.FoodTruckID) {
			return common.ErrOrderNotFound
		}
		return nil
	}
}

// transition applies one status change inside a transaction. The update is
// conditional on the status read, so a concurrent change makes it fail.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, to models.OrderStatus, authorize func(*models.Order) error) (*models.Order, error) {
	var order *models.Order
	err := s.store.ExecTx(ctx, func(repos *repositories.Repositories) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return common.ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		if err := authorize(order); err != nil {
			return err
		}

		from := order.Status
		if !models.CanTransition(order.Type, from, to) {
			return fmt.Errorf("%w: %s to %s", common.ErrInvalidTransition, from, to)
		}
		ok, err := repos.Orders.UpdateStatus(ctx, id, from, to)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: order changed concurrently", common.ErrInvalidTransition)
		}
		order.Status = to
		order.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("order_id", id.String()).Str("status", string(to)).Msg("order status changed")
	return order, nil
}

func (s *orderService) loadVisibleOrder(ctx context.Context, repos *repositories.Repositories, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	order, err := repos.Orders.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	switch actor.Role {
	case models.RoleAdmin:
		return order, nil
	case models.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return order, nil
		}
	case models.RoleStaff, models.RoleManager:
		if actor.CanOperate(order.FoodTruckID) {
			return order, nil
		}
	}
	return nil, common.ErrOrderNotFound
}

// hydrate attaches line items and invoices to orders.
func (s *orderService) hydrate(ctx context.Context, repos *repositories.Repositories, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	items, err := repos.OrderItems.ListByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	invoices, err := repos.Invoices.ListByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load invoices: %w", err)
	}
	for _, order := range orders {
		order.Items = items[order.ID]
		order.Invoice = invoices[order.ID]
	}
	return nil
}
