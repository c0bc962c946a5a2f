package model

import "time"

// Notification is an admin-facing message recorded when a
// reservation or order event is observed on the broker.  The
// dashboard lists unread notifications and marks them read.
type Notification struct {
	ID            uint64    `json:"id"`
	Kind          string    `json:"kind"`
	Message       string    `json:"message"`
	RefExternalID string    `json:"ref_external_id,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
