package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// writeError maps service and repository errors onto HTTP responses.
// Every body carries a machine-readable "error" code next to the
// human-readable "message" so clients branch on the code, never on
// the text.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrIncompleteRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": err.Error()})
	case errors.Is(err, service.ErrDuplicateSubmission):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_submission", "message": err.Error()})
	case errors.Is(err, service.ErrSlotConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot_conflict", "message": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrDuplicateEntry):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate_entry", "message": err.Error()})
	default:
		// Infrastructure failures are retryable; hide the detail.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage_failure", "message": "temporary storage failure, retry later"})
	}
}
