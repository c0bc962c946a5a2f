package model

import "time"

// Feedback bounds for the star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a guest's rating of an order.  The order is referenced
// by external ID only; feedback outlives any later cleanup of order
// history.
type Feedback struct {
	ID              uint64    `json:"id"`
	OrderExternalID string    `json:"order_external_id"`
	CustomerName    string    `json:"customer_name"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
