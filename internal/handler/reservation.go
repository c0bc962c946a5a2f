package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP:
// guest-facing creation, lookup and slot availability, and the
// admin-triggered status sweep.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: svc}
}

// Create handles POST /v1/reservations.  The body carries the
// reservation fields including the client-generated idempotency key;
// resubmitting the same key yields 409 duplicate_submission rather
// than a second booking.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid request body"})
	}
	res, err := h.Reservations.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id where :id is the external
// UUID.  Reading recomputes the status first, so the response always
// reflects the current time.
func (h *ReservationHandler) Get(c echo.Context) error {
	res, err := h.Reservations.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /v1/reservations with optional table, date, email
// and status query filters.
func (h *ReservationHandler) List(c echo.Context) error {
	f := repository.Filter{
		TableNumber: c.QueryParam("table"),
		GuestEmail:  c.QueryParam("email"),
	}
	if d := c.QueryParam("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid date filter"})
		}
		f.Date = &date
	}
	if s := c.QueryParam("status"); s != "" {
		f.Statuses = []model.ReservationStatus{model.ReservationStatus(s)}
	}
	all, err := h.Reservations.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

// BookedSlots handles GET /v1/reservations/slots?table=..&date=.. and
// returns the slot labels still blocking the table on that date, for
// the booking form to grey out.
func (h *ReservationHandler) BookedSlots(c echo.Context) error {
	booked, err := h.Reservations.BookedSlots(c.Request().Context(), c.QueryParam("table"), c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booked": booked})
}

// Sweep handles POST /v1/reservations/sweep.  It runs the same
// recomputation as the periodic timer and reports how many records
// transitioned; cron jobs and the admin dashboard use it.
func (h *ReservationHandler) Sweep(c echo.Context) error {
	changed, err := h.Reservations.RunStatusSweep(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"changed": changed})
}
