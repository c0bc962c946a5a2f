package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		codeWant string
	}{
		{"incomplete request", fmt.Errorf("%w: date is required", service.ErrIncompleteRequest), http.StatusBadRequest, "incomplete_request"},
		{"duplicate submission", service.ErrDuplicateSubmission, http.StatusConflict, "duplicate_submission"},
		{"slot conflict", service.ErrSlotConflict, http.StatusConflict, "slot_conflict"},
		{"service not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"repository not found", repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{"duplicate entry", repository.ErrDuplicateEntry, http.StatusConflict, "duplicate_entry"},
		{"unknown error hides detail", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "storage_failure"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, writeError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error":"`+tc.codeWant+`"`)
			if tc.codeWant == "storage_failure" {
				// Infrastructure detail must not leak to clients.
				assert.NotContains(t, rec.Body.String(), "dial tcp")
			}
		})
	}
}
