package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderHandlers handles checkout and the order lifecycle for customers, staff and managers
type OrderHandlers struct {
	orders   services.OrderService
	carts    services.CartService
	receipts services.ReceiptService
	location *time.Location
}

func NewOrderHandlers(orders services.OrderService, carts services.CartService, receipts services.ReceiptService, loc *time.Location) *OrderHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandlers{orders: orders, carts: carts, receipts: receipts, location: loc}
}

// CheckoutRequest turns the caller's cart into an order
type CheckoutRequest struct {
	OrderType     string                `json:"order_type"`
	PaymentMethod string                `json:"payment_method"`
	PickupDate    string                `json:"pickup_date"` // YYYY-MM-DD
	PickupTime    string                `json:"pickup_time"` // HH:MM
	Amount        *decimal.Decimal      `json:"amount"`      // total shown to the customer, optional
	Card          *services.CardDetails `json:"card"`
}

// FeedbackRequest is a customer's comment on a fulfilled order
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// StatusRequest moves an accepted order along its progression
type StatusRequest struct {
	Status string `json:"status"`
}

// PlaceOrder godoc
// @Summary      Check out the customer's cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CheckoutRequest  true  "Checkout"
// @Success      201      {object}  models.Order
// @Failure      400      {object}  common.ErrorResponse
// @Failure      422      {object}  common.ErrorResponse
// @Router       /v1/orders [post]
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	return h.checkout(c, cartKey(actor), actor.UserID, nil)
}

// PlaceOrderForCustomer godoc
// @Summary      Check out the staff member's cart on behalf of a customer
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        custId   path      string           true  "Customer ID"
// @Param        request  body      CheckoutRequest  true  "Checkout"
// @Success      201      {object}  models.Order
// @Failure      403      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /v1/staff/customers/{custId}/orders [post]
func (h *OrderHandlers) PlaceOrderForCustomer(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	customerID, ok, err := pathUUID(c, "custId")
	if !ok {
		return err
	}
	return h.checkout(c, cartKey(actor), customerID, &actor.UserID)
}

func (h *OrderHandlers) checkout(c echo.Context, key caching.CartKey, customerID uuid.UUID, placedBy *uuid.UUID) error {
	ctx := c.Request().Context()

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	pickup, err := parsePickup(req.PickupDate, req.PickupTime, h.location)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	cart, err := h.carts.GetCart(ctx, key)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	order, err := h.orders.PlaceOrder(ctx, services.PlaceOrderRequest{
		CustomerID:     customerID,
		PlacedByID:     placedBy,
		PlacedAtTruck:  key.FoodTruckID,
		Lines:          cart.OrderLines(),
		Amount:         req.Amount,
		Type:           models.OrderType(strings.ToUpper(req.OrderType)),
		PaymentMethod:  models.PaymentMethod(strings.ToUpper(req.PaymentMethod)),
		PickupDateTime: pickup,
		Card:           req.Card,
	})
	if err != nil {
		return common.SendDomainError(c, err)
	}

	// The order is already committed at this point.
	if err := h.carts.ClearCart(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to clear cart after checkout")
	}
	return c.JSON(http.StatusCreated, order)
}

// ListOrders godoc
// @Summary      The customer's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/orders [get]
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	orders, err := h.orders.ListCustomerOrders(c.Request().Context(), actor.UserID, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder godoc
// @Summary      One order with its items and invoice
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order ID"
// @Success      200  {object}  models.Order
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	return h.withOrder(c, http.StatusOK, h.orders.GetOrder)
}

// CancelOrder godoc
// @Summary      Cancel a pending order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order ID"
// @Success      200  {object}  models.Order
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	return h.withOrder(c, http.StatusOK, h.orders.CancelOrder)
}

// AddFeedback godoc
// @Summary      Leave feedback on a fulfilled order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Order ID"
// @Param        request  body      FeedbackRequest  true  "Feedback"
// @Success      200      {object}  models.Order
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/orders/{id}/feedback [put]
func (h *OrderHandlers) AddFeedback(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orders.AddFeedback(c.Request().Context(), actor, id, req.Feedback)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DownloadReceipt godoc
// @Summary      PDF receipt of an order
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Order ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/orders/{id}/receipt [get]
func (h *OrderHandlers) DownloadReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	order, err := h.orders.GetOrder(ctx, actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	pdf, err := h.receipts.RenderReceipt(order)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("order_id", id.String()).Msg("failed to render receipt")
		return common.SendServerError(c, "Failed to generate receipt")
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ListTruckOrders godoc
// @Summary      Orders of the caller's truck
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Only orders in this status"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/manager/orders [get]
func (h *OrderHandlers) ListTruckOrders(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	truckID, ok, err := truckOf(c, actor)
	if !ok {
		return err
	}
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}

	var status *models.OrderStatus
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		s := models.OrderStatus(strings.ToUpper(raw))
		status = &s
	}

	orders, err := h.orders.ListTruckOrders(c.Request().Context(), truckID, status, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
		"limit":  limit,
		"offset": offset,
		"status_options": map[models.OrderType][]models.OrderStatus{
			models.OrderTypePickup:   h.orders.StatusOptions(models.OrderTypePickup),
			models.OrderTypeDelivery: h.orders.StatusOptions(models.OrderTypeDelivery),
		},
	})
}

// ApproveOrder godoc
// @Summary      Accept a pending order
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order ID"
// @Success      200  {object}  models.Order
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/manager/orders/{id}/approve [post]
func (h *OrderHandlers) ApproveOrder(c echo.Context) error {
	return h.withOrder(c, http.StatusOK, h.orders.ApproveOrder)
}

// RejectOrder godoc
// @Summary      Reject a pending order
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Order ID"
// @Success      200  {object}  models.Order
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/manager/orders/{id}/reject [post]
func (h *OrderHandlers) RejectOrder(c echo.Context) error {
	return h.withOrder(c, http.StatusOK, h.orders.RejectOrder)
}

// UpdateStatus godoc
// @Summary      Move an accepted order to its next status
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Order ID"
// @Param        request  body      StatusRequest  true  "New status"
// @Success      200      {object}  models.Order
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/manager/orders/{id}/status [put]
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Status) == "" {
		return common.SendValidationError(c, "status", "status is required")
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), actor, id, models.OrderStatus(strings.ToUpper(req.Status)))
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

type orderAction func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error)

// withOrder runs an actor-scoped operation on the order named by the :id path parameter.
func (h *OrderHandlers) withOrder(c echo.Context, status int, action orderAction) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	order, err := action(c.Request().Context(), actor, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(status, order)
}
