package handlers

import (
	"net/http"
	"strings"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const maxImageSize = 5 * 1024 * 1024

// ItemHandlers serves menus and lets managers edit their own
type ItemHandlers struct {
	items services.ItemService
}

func NewItemHandlers(items services.ItemService) *ItemHandlers {
	return &ItemHandlers{items: items}
}

// ListItems godoc
// @Summary      Browse menu items
// @Tags         items
// @Produce      json
// @Param        truck_id     query  string  false  "Only items of this truck"
// @Param        category_id  query  string  false  "Only items in this category"
// @Param        q            query  string  false  "Name search"
// @Param        limit        query  int     false  "Page size"
// @Param        offset       query  int     false  "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/items [get]
func (h *ItemHandlers) ListItems(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "offset", err.Error())
	}
	filter := models.ItemFilter{
		Query:  common.SanitizeSearchQuery(c.QueryParam("q")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.QueryParam("truck_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "truck_id")
		if err != nil {
			return common.SendValidationError(c, "truck_id", err.Error())
		}
		filter.FoodTruckID = &id
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := common.ValidateUUID(raw, "category_id")
		if err != nil {
			return common.SendValidationError(c, "category_id", err.Error())
		}
		filter.CategoryID = &id
	}

	return h.list(c, filter)
}

// GetItem godoc
// @Summary      Menu item by slug
// @Tags         items
// @Produce      json
// @Param        slug  path      string  true  "Item slug"
// @Success      200   {object}  models.Item
// @Failure      404   {object}  common.ErrorResponse
// @Router       /v1/items/{slug} [get]
func (h *ItemHandlers) GetItem(c echo.Context) error {
	item, err := h.items.GetItemBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListOwnItems godoc
// @Summary      Menu of the manager's truck
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/manager/items [get]
func (h *ItemHandlers) ListOwnItems(c echo.Context) error {
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

	return h.list(c, models.ItemFilter{FoodTruckID: &truckID, Limit: limit, Offset: offset})
}

func (h *ItemHandlers) list(c echo.Context, filter models.ItemFilter) error {
	items, err := h.items.ListItems(c.Request().Context(), filter)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"count":  len(items),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// CreateItem godoc
// @Summary      Add an item to the manager's menu
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      services.ItemRequest  true  "Item"
// @Success      201      {object}  models.Item
// @Failure      400      {object}  common.ErrorResponse
// @Router       /v1/manager/items [post]
func (h *ItemHandlers) CreateItem(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}

	var req services.ItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.items.CreateItem(c.Request().Context(), actor, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary      Edit an item of the manager's menu
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Item ID"
// @Param        request  body      services.ItemRequest  true  "Item"
// @Success      200      {object}  models.Item
// @Failure      404      {object}  common.ErrorResponse
// @Router       /v1/manager/items/{id} [put]
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	var req services.ItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.items.UpdateItem(c.Request().Context(), actor, id, req)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary      Remove an item from the manager's menu
// @Tags         manager
// @Security     BearerAuth
// @Param        id  path  string  true  "Item ID"
// @Success      204
// @Failure      409  {object}  common.ErrorResponse
// @Router       /v1/manager/items/{id} [delete]
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	if err := h.items.DeleteItem(c.Request().Context(), actor, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadItemImage godoc
// @Summary      Upload the picture of an item
// @Tags         manager
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Item ID"
// @Param        image  formData  file    true  "Image, at most 5MB"
// @Success      200    {object}  models.Item
// @Failure      400    {object}  common.ErrorResponse
// @Router       /v1/manager/items/{id}/image [post]
func (h *ItemHandlers) UploadItemImage(c echo.Context) error {
	ctx := c.Request().Context()

	actor, ok, err := currentActor(c)
	if !ok {
		return err
	}
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	if file.Size > maxImageSize {
		return common.SendValidationError(c, "image", "file size exceeds maximum limit of 5MB")
	}

	src, err := file.Open()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to open uploaded image")
		return common.SendServerError(c, "Failed to open image file")
	}
	defer src.Close()

	// The client header is ignored; sniff the first 512 bytes.
	head := make([]byte, 512)
	n, _ := src.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return common.SendValidationError(c, "image", "only image files are allowed")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return common.SendServerError(c, "Failed to read image file")
	}

	item, err := h.items.UploadItemImage(ctx, actor, id, services.ImageUpload{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
