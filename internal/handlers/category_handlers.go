package handlers

import (
	"net/http"

	"foodtruck/internal/common"
	"foodtruck/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles category-related HTTP requests
type CategoryHandlers struct {
	categories services.CategoryService
}

func NewCategoryHandlers(categories services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categories: categories}
}

// CategoryRequest is the payload for creating or renaming a category
type CategoryRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// ListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/categories [get]
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	categories, err := h.categories.ListCategories(c.Request().Context())
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CategoryRequest  true  "Category"
// @Success      201      {object}  models.Category
// @Failure      409      {object}  common.ErrorResponse
// @Router       /v1/admin/categories [post]
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category, err := h.categories.CreateCategory(c.Request().Context(), req.Name, req.ImageURL)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary      Rename a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Category ID"
// @Param        request  body      CategoryRequest  true  "Category"
// @Success      200      {object}  models.Category
// @Failure      404      {object}  common.ErrorResponse
// @Router       /v1/admin/categories/{id} [put]
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category, err := h.categories.UpdateCategory(c.Request().Context(), id, req.Name, req.ImageURL)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Category ID"
// @Success      204
// @Failure      404  {object}  common.ErrorResponse
// @Router       /v1/admin/categories/{id} [delete]
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	id, ok, err := pathUUID(c, "id")
	if !ok {
		return err
	}

	if err := h.categories.DeleteCategory(c.Request().Context(), id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
