package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UserHandlers covers the truck-side user lookups: customer search and staff management
type UserHandlers struct {
	users services.UserService
}

func NewUserHandlers(users services.UserService) *UserHandlers {
	return &UserHandlers{users: users}
}

// SearchCustomers godoc
// @Summary      Find the customer an assisted order is for
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        q       query  string  false  "Matches email, first or last name"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/staff/customers [get]
func (h *UserHandlers) SearchCustomers(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}
	query := common.SanitizeSearchQuery(c.QueryParam("q"))

	customers, err := h.users.SearchCustomers(c.Request().Context(), query, limit, offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
		"limit":     limit,
		"offset":    offset,
	})
}

// ListStaff godoc
// @Summary      Staff of the manager's truck
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/manager/staff [get]
func (h *UserHandlers) ListStaff(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	truckID, ok, err := truckOf(c, actor)
	if !ok {
		return err
	}

	staff, err := h.users.ListStaff(c.Request().Context(), truckID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"staff": staff,
		"count": len(staff),
	})
}

// CreateStaff godoc
// @Summary      Create a staff account at the manager's truck
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.UserRequest  true  "Staff member"
// @Success      201      {object}  models.User
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/manager/staff [post]
func (h *UserHandlers) CreateStaff(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	var req services.UserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.users.CreateStaff(ctx, actor, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("manager_id", actor.UserID.String()).Msg("staff account created")
	return c.JSON(http.StatusCreated, user)
}
