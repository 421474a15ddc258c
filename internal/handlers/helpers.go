package handlers

import (
	"foodtruck/internal/caching"
	"foodtruck/internal/common"
	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// currentActor returns the identity loaded by the auth middleware, or writes a 401.
func currentActor(c echo.Context) (models.Actor, bool, error) {
	actor, ok := common.GetActorFromContext(c.Request().Context())
	if !ok {
		return models.Actor{}, false, common.SendUnauthorizedError(c)
	}
	return actor, true, nil
}

// pathUUID parses a path parameter, writing a validation error on failure.
func pathUUID(c echo.Context, name string) (uuid.UUID, bool, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, false, common.SendValidationError(c, name, err.Error())
	}
	return id, true, nil
}

// truckOf returns the truck a staff member or manager works at.
func truckOf(c echo.Context, actor models.Actor) (uuid.UUID, bool, error) {
	if actor.FoodTruckID == nil {
		return uuid.Nil, false, common.SendForbiddenError(c)
	}
	return *actor.FoodTruckID, true, nil
}

// cartKey scopes staff carts to the staff member's truck.
func cartKey(actor models.Actor) caching.CartKey {
	key := caching.CartKey{Role: actor.Role, OwnerID: actor.UserID}
	if actor.Role == models.RoleStaff {
		key.FoodTruckID = actor.FoodTruckID
	}
	return key
}

// CartResponse is the wire form of a cart.
type CartResponse struct {
	FoodTruckID *uuid.UUID        `json:"food_truck_id"`
	Lines       []models.CartLine `json:"lines"`
	Total       decimal.Decimal   `json:"total"`
	ItemCount   int               `json:"item_count"`
}

func newCartResponse(cart *models.Cart) CartResponse {
	resp := CartResponse{Lines: cart.Lines(), Total: cart.Total()}
	if !cart.IsEmpty() {
		truckID := cart.FoodTruckID()
		resp.FoodTruckID = &truckID
	}
	for _, l := range resp.Lines {
		resp.ItemCount += l.Quantity
	}
	return resp
}
