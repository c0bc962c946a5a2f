// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Each event type gets its own durable queue; the
// routing key equals the queue name on the default exchange.
const (
	ReservationCreatedQueue       = "reservation.created"
	ReservationStatusChangedQueue = "reservation.status_changed"
	OrderCreatedQueue             = "order.created"
)

// ReservationCreatedEvent is published when a reservation is
// successfully committed.  It carries enough for downstream consumers
// to notify admins without querying the primary database.
type ReservationCreatedEvent struct {
	ExternalID        string `json:"external_id"`
	ReservationNumber string `json:"reservation_number"`
	GuestName         string `json:"guest_name"`
	TableNumber       string `json:"table_number"`
	Date              string `json:"date"`
	TimeSlot          string `json:"time_slot"`
	PartySize         int    `json:"party_size"`
	CreatedAt         string `json:"created_at"`
}

// ReservationStatusChangedEvent is published for every transition the
// status sweep or an on-demand recomputation persists.
type ReservationStatusChangedEvent struct {
	ExternalID        string `json:"external_id"`
	ReservationNumber string `json:"reservation_number"`
	OldStatus         string `json:"old_status"`
	NewStatus         string `json:"new_status"`
	ChangedAt         string `json:"changed_at"`
}

// OrderCreatedEvent is published when a new order is committed.
type OrderCreatedEvent struct {
	ExternalID   string `json:"external_id"`
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
	TableNumber  string `json:"table_number"`
	TotalCents   int64  `json:"total_cents"`
	CreatedAt    string `json:"created_at"`
}
