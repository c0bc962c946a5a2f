package model

import "time"

// Table describes a physical restaurant table available for dining
// and reservation.  Tables are identified to guests by their number,
// which is unique across the restaurant.
//
// Fields:
//  ID            – primary key identifier.
//  Number        – unique table number shown to guests.
//  Capacity      – number of seats at the table, positive.
//  ImageURL      – photo of the table (uploaded elsewhere).
//  ImagePublicID – storage reference of the photo, for deletion.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Table struct {
	ID            uint64    `json:"id"`
	Number        string    `json:"number"`
	Capacity      int       `json:"capacity"`
	ImageURL      string    `json:"image_url,omitempty"`
	ImagePublicID string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
