package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// MenuHandler manages menu items.  Prices are integer cents; order
// creation snapshots them onto order items, so editing a price never
// rewrites past orders.
type MenuHandler struct {
	Menu *repository.MenuRepo
}

// NewMenuHandler constructs a MenuHandler.
func NewMenuHandler(repo *repository.MenuRepo) *MenuHandler {
	if repo == nil {
		panic("nil repository passed to NewMenuHandler")
	}
	return &MenuHandler{Menu: repo}
}

type menuItemRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url"`
}

// Create handles POST /v1/menu.
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "name and a non-negative price are required"})
	}
	m := &model.MenuItem{Name: req.Name, PriceCents: req.PriceCents, ImageURL: req.ImageURL}
	if err := h.Menu.Create(c.Request().Context(), m); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /v1/menu.
func (h *MenuHandler) List(c echo.Context) error {
	all, err := h.Menu.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// Update handles PUT /v1/menu/:id.
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid menu item id"})
	}
	var req menuItemRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "name and a non-negative price are required"})
	}
	m := &model.MenuItem{ID: id, Name: req.Name, PriceCents: req.PriceCents, ImageURL: req.ImageURL}
	if err := h.Menu.Update(c.Request().Context(), m); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/menu/:id.
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid menu item id"})
	}
	if err := h.Menu.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
