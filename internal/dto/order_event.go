package dto

import "time"

const (
	EventOrderCreated            = "order.created"
	EventOrderSubmitted          = "order.submitted"
	EventOrderConfirmed          = "order.confirmed"
	EventOrderNeedsClarification = "order.needs_clarification"
	EventOrderShipped            = "order.shipped"
	EventOrderClosed             = "order.closed"
	EventOrderCancelled          = "order.cancelled"
)

// OrderEvent is published on every persisted lifecycle transition.
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Total      int64     `json:"total"`
	Currency   string    `json:"currency"`
	Source     string    `json:"source"`
	TrackingID string    `json:"tracking_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
