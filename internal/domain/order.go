package domain

import (
	"math"
	"regexp"
	"time"
)

const (
	DefaultCurrency = "UAH"
	DefaultSource   = "site"
	DefaultItemName = "Товар"

	MaxSKULength  = 50
	MaxNameLength = 120
)

var OrderIDPattern = regexp.MustCompile(`^[a-z0-9]{8,12}$`)

type CartItem struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int64  `json:"qty"`
}

func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * i.Quantity
}

// CheckedTotal sums price × qty over items and reports false when any line
// or the running sum leaves the int64 range. Prices and quantities are
// expected to be non-negative.
func CheckedTotal(items []CartItem) (int64, bool) {
	var total int64
	for _, item := range items {
		if item.UnitPrice < 0 || item.Quantity < 0 {
			return 0, false
		}
		if item.UnitPrice != 0 && item.Quantity > math.MaxInt64/item.UnitPrice {
			return 0, false
		}
		line := item.UnitPrice * item.Quantity
		if total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}

type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Comment   string `json:"comment,omitempty"`
}

func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type PaymentMethod string

const (
	PaymentPrivat PaymentMethod = "privat"
	PaymentPUMB   PaymentMethod = "pumb"
	PaymentABank  PaymentMethod = "abank"
	PaymentFOP    PaymentMethod = "fop"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPrivat, PaymentPUMB, PaymentABank, PaymentFOP:
		return true
	}
	return false
}

// IsInvoice reports whether the method is the corporate invoice payment
// rather than a bank card transfer.
func (m PaymentMethod) IsInvoice() bool {
	return m == PaymentFOP
}

type Order struct {
	ID               string        `json:"order_id"`
	Items            []CartItem    `json:"items"`
	Total            int64         `json:"total"`
	Currency         string        `json:"currency"`
	Source           string        `json:"source"`
	Page             string        `json:"page,omitempty"`
	ClientTS         int64         `json:"ts"`
	Contact          *Contact      `json:"contact,omitempty"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty"`
	PaymentProof     string        `json:"payment_proof,omitempty"`
	TrackingID       string        `json:"tracking_id,omitempty"`
	CustomerChatID   int64         `json:"customer_chat_id,omitempty"`
	CustomerUsername string        `json:"customer_username,omitempty"`
	State            State         `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	LastModifiedAt   time.Time     `json:"last_modified_at"`
}

// RecomputeTotal sets Total from the items; client supplied totals are never
// trusted.
func (o *Order) RecomputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	o.Total = total
	return total
}

func (o *Order) ItemCount() int64 {
	var n int64
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

func ValidOrderID(id string) bool {
	return OrderIDPattern.MatchString(id)
}
