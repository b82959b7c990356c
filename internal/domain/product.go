package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry, used to check the SKUs and prices a
// cart was submitted with.
type Product struct {
	ID          int
	CategoryID  int
	Name        string
	Slug        string
	SKU         string
	Price       decimal.NullDecimal
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitPrice returns the catalog price rounded to whole currency units, the
// precision carts are priced in. Products without a price report false.
func (p Product) UnitPrice() (int64, bool) {
	if !p.Price.Valid {
		return 0, false
	}
	return p.Price.Decimal.Round(0).IntPart(), true
}
