package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// OrderHandler exposes order placement and the kitchen status board.
type OrderHandler struct {
	Orders *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	if svc == nil {
		panic("nil service passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: svc}
}

// Create handles POST /v1/orders.
func (h *OrderHandler) Create(c echo.Context) error {
	var in service.CreateOrderInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid request body"})
	}
	o, err := h.Orders.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// Get handles GET /v1/orders/:id by external UUID.
func (h *OrderHandler) Get(c echo.Context) error {
	o, err := h.Orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// List handles GET /v1/orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	all, err := h.Orders.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// UpdateStatus handles PUT /v1/orders/:id/status with a JSON body
// {"status": "..."} naming one of the kitchen states.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid request body"})
	}
	if err := h.Orders.UpdateStatus(c.Request().Context(), c.Param("id"), model.OrderStatus(body.Status)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": body.Status})
}
