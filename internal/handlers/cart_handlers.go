package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
)

// CartHandlers manage the caller's cart. Customers and staff each have their own.
type CartHandlers struct {
	carts services.CartService
}

func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// AddCartItemRequest adds quantity units of an item
type AddCartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// SetQuantityRequest overwrites a line's quantity; zero removes it
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart godoc
// @Summary      The caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CartResponse
// @Router       /v1/cart [get]
func (h *CartHandlers) GetCart(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	cart, err := h.carts.GetCart(c.Request().Context(), cartKey(actor))
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// AddItem godoc
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      AddCartItemRequest  true  "Item and quantity"
// @Success      200      {object}  CartResponse
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandlers) AddItem(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Request().Context(), cartKey(actor), itemID, req.Quantity)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// SetQuantity godoc
// @Summary      Change the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId   path      string              true  "Item ID"
// @Param        request  body      SetQuantityRequest  true  "Quantity"
// @Success      200      {object}  CartResponse
// @Failure      404      {object}  common.ErrorResponse
// @Router       /v1/cart/items/{itemId} [put]
func (h *CartHandlers) SetQuantity(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	itemID, ok, err := pathUUID(c, "itemId")
	if !ok {
		return err
	}

	var req SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	cart, err := h.carts.SetQuantity(c.Request().Context(), cartKey(actor), itemID, req.Quantity)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// RemoveItem godoc
// @Summary      Remove a line from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path      string  true  "Item ID"
// @Success      200     {object}  CartResponse
// @Router       /v1/cart/items/{itemId} [delete]
func (h *CartHandlers) RemoveItem(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	itemID, ok, err := pathUUID(c, "itemId")
	if !ok {
		return err
	}

	cart, err := h.carts.RemoveItem(c.Request().Context(), cartKey(actor), itemID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// ClearCart godoc
// @Summary      Empty the cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandlers) ClearCart(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	if err := h.carts.ClearCart(c.Request().Context(), cartKey(actor)); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
