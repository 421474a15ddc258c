package handlers

import (
	"net/http"
	"strings"
	"time"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// FoodTruckHandlers serves the truck directory, onboarding and schedules
type FoodTruckHandlers struct {
	trucks   services.FoodTruckService
	location *time.Location
}

func NewFoodTruckHandlers(trucks services.FoodTruckService, loc *time.Location) *FoodTruckHandlers {
	if loc == nil {
		loc = time.UTC
	}
	return &FoodTruckHandlers{trucks: trucks, location: loc}
}

// ListTrucks godoc
// @Summary      List food trucks
// @Tags         trucks
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/trucks [get]
func (h *FoodTruckHandlers) ListTrucks(c echo.Context) error {
	trucks, err := h.trucks.ListTrucks(c.Request().Context())
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"trucks": trucks,
		"count":  len(trucks),
	})
}

// GetTruck godoc
// @Summary      Food truck with its weekly schedule
// @Tags         trucks
// @Produce      json
// @Param        slug  path      string  true  "Truck slug"
// @Success      200   {object}  models.FoodTruck
// @Failure      404   {object}  common.ErrorResponse
// @Router       /v1/trucks/{slug} [get]
func (h *FoodTruckHandlers) GetTruck(c echo.Context) error {
	truck, err := h.trucks.GetTruckBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, truck)
}

// CheckAvailability godoc
// @Summary      Whether a truck is open at a pickup date and time
// @Tags         trucks
// @Produce      json
// @Param        slug  path   string  true  "Truck slug"
// @Param        date  query  string  true  "Pickup date (YYYY-MM-DD)"
// @Param        time  query  string  true  "Pickup time (HH:MM)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.ErrorResponse
// @Router       /v1/trucks/{slug}/availability [get]
func (h *FoodTruckHandlers) CheckAvailability(c echo.Context) error {
	date, err := time.ParseInLocation(dateLayout, c.QueryParam("date"), h.location)
	if err != nil {
		return common.SendValidationError(c, "date", "must be formatted as YYYY-MM-DD")
	}
	at, err := time.ParseInLocation(timeLayout, c.QueryParam("time"), h.location)
	if err != nil {
		return common.SendValidationError(c, "time", "must be formatted as HH:MM")
	}

	open, err := h.trucks.CheckAvailability(c.Request().Context(), c.Param("slug"), date, at)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"slug":      c.Param("slug"),
		"date":      date.Format(dateLayout),
		"time":      at.Format(timeLayout),
		"available": open,
	})
}

// OnboardTruckResponse is the new truck and its first manager
type OnboardTruckResponse struct {
	Truck   *models.FoodTruck `json:"truck"`
	Manager *models.User      `json:"manager"`
}

// OnboardTruck godoc
// @Summary      Onboard a food truck with its manager account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.OnboardTruckRequest  true  "Truck and manager"
// @Success      201      {object}  OnboardTruckResponse
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/admin/trucks [post]
func (h *FoodTruckHandlers) OnboardTruck(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.OnboardTruckRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	truck, manager, err := h.trucks.OnboardTruck(ctx, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	log.Ctx(ctx).Info().Str("food_truck_id", truck.ID.String()).Str("slug", truck.Slug).Msg("food truck onboarded")
	return c.JSON(http.StatusCreated, OnboardTruckResponse{Truck: truck, Manager: manager})
}

// ScheduleRequest replaces a truck's weekly schedule
type ScheduleRequest struct {
	Entries []models.ScheduleEntry `json:"entries"`
}

// GetSchedule godoc
// @Summary      Weekly schedule of the manager's truck
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/manager/schedule [get]
func (h *FoodTruckHandlers) GetSchedule(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	truckID, ok, err := truckOf(c, actor)
	if !ok {
		return err
	}

	entries, err := h.trucks.GetSchedule(c.Request().Context(), truckID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"food_truck_id": truckID,
		"entries":       entries,
	})
}

// SaveSchedule godoc
// @Summary      Replace the weekly schedule of the manager's truck
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ScheduleRequest  true  "Opening windows"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  common.ErrorResponse
// @Router       /v1/manager/schedule [put]
func (h *FoodTruckHandlers) SaveSchedule(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	truckID, ok, err := truckOf(c, actor)
	if !ok {
		return err
	}

	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	entries, err := h.trucks.SaveSchedule(c.Request().Context(), truckID, req.Entries)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"food_truck_id": truckID,
		"entries":       entries,
	})
}

// parsePickup combines a YYYY-MM-DD date and an HH:MM time in loc. Both empty means no pickup time.
func parsePickup(date, clock string, loc *time.Location) (*time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" && clock == "" {
		return nil, nil
	}
	if date == "" || clock == "" {
		return nil, common.NewValidationError("pickup_date_time", "pickup date and time must be given together")
	}
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, loc)
	if err != nil {
		return nil, common.NewValidationError("pickup_date_time", "expected YYYY-MM-DD and HH:MM")
	}
	return &t, nil
}
