package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler manages the physical table inventory.  Listing is
// public so the booking form can show tables; writes are admin-only.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(repo *repository.TableRepo) *TableHandler {
	if repo == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: repo}
}

type tableRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	ImageURL string `json:"image_url"`
}

// Create handles POST /v1/tables.
func (h *TableHandler) Create(c echo.Context) error {
	var req tableRequest
	if err := c.Bind(&req); err != nil || req.Number == "" || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "number and a positive capacity are required"})
	}
	t := &model.Table{Number: req.Number, Capacity: req.Capacity, ImageURL: req.ImageURL}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// List handles GET /v1/tables.
func (h *TableHandler) List(c echo.Context) error {
	all, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// Update handles PUT /v1/tables/:id.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid table id"})
	}
	var req tableRequest
	if err := c.Bind(&req); err != nil || req.Number == "" || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "number and a positive capacity are required"})
	}
	t := &model.Table{ID: id, Number: req.Number, Capacity: req.Capacity, ImageURL: req.ImageURL}
	if err := h.Tables.Update(c.Request().Context(), t); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/tables/:id.  Reservation history keeps
// referring to the table number, so deletion never touches bookings.
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid table id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
