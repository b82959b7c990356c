package dto

import (
	"time"

	apperrors "orderdesk/internal/errors"
)

type OrderItemDTO struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type GetOrderResponse struct {
	OrderID  string         `json:"order_id"`
	Items    []OrderItemDTO `json:"items"`
	Total    int64          `json:"total"`
	Currency string         `json:"currency"`
	TS       int64          `json:"ts"`
	Source   string         `json:"source"`
	Status   string         `json:"status"`
}

type OrderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Error     string                       `json:"error"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}
