package model

import "time"

// MenuItem is a dish or drink offered by the restaurant.  Prices are
// stored in cents to avoid floating point rounding.
type MenuItem struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
