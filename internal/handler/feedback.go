package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// FeedbackStore is the persistence surface the feedback handler
// needs.  *repository.FeedbackRepo satisfies it.
type FeedbackStore interface {
	Create(ctx context.Context, f *model.Feedback) error
	List(ctx context.Context) ([]model.Feedback, error)
}

// FeedbackHandler takes guest ratings of orders and serves the admin
// feedback list.
type FeedbackHandler struct {
	Feedback FeedbackStore
}

// NewFeedbackHandler constructs a FeedbackHandler.
func NewFeedbackHandler(store FeedbackStore) *FeedbackHandler {
	if store == nil {
		panic("nil store passed to NewFeedbackHandler")
	}
	return &FeedbackHandler{Feedback: store}
}

type feedbackRequest struct {
	OrderExternalID string `json:"order_external_id"`
	CustomerName    string `json:"customer_name"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment"`
}

// Create handles POST /v1/feedback.  The rating must be between 1 and
// 5 stars; the comment is optional.
func (h *FeedbackHandler) Create(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "invalid request body"})
	}
	if req.OrderExternalID == "" || req.CustomerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "incomplete_request", "message": "order_external_id and customer_name are required"})
	}
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "incomplete_request",
			"message": fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating),
		})
	}
	f := &model.Feedback{
		OrderExternalID: req.OrderExternalID,
		CustomerName:    req.CustomerName,
		Rating:          req.Rating,
		Comment:         req.Comment,
	}
	if err := h.Feedback.Create(c.Request().Context(), f); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// List handles GET /v1/feedback, newest first.
func (h *FeedbackHandler) List(c echo.Context) error {
	all, err := h.Feedback.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}
