package model

import "time"

// OrderStatus enumerates the kitchen-facing states of an order.
type OrderStatus string

const (
	OrderWaiting    OrderStatus = "WAITING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderReady      OrderStatus = "READY"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderWaiting, OrderInProgress, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order records a food order placed for a table.  Orders carry a
// human readable ORD-YYYYMMDD-NNNN number scoped to the creation
// date.  Item details are snapshotted from the menu at creation so
// later menu edits do not rewrite history.
type Order struct {
	ID           uint64      `json:"id"`
	ExternalID   string      `json:"external_id"`
	OrderNumber  string      `json:"order_number"`
	CustomerName string      `json:"customer_name"`
	TableNumber  string      `json:"table_number"`
	OrderType    string      `json:"order_type"`
	Note         string      `json:"note,omitempty"`
	TotalCents   int64       `json:"total_cents"`
	Status       OrderStatus `json:"status"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order.  Name, price and image are
// copied from the menu item at the time the order is placed.
type OrderItem struct {
	ID         uint64 `json:"id"`
	OrderID    uint64 `json:"-"`
	MenuItemID uint64 `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url,omitempty"`
}
