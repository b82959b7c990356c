package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProduct_UnitPrice(t *testing.T) {
	tests := []struct {
		name   string
		price  decimal.NullDecimal
		want   int64
		priced bool
	}{
		{"whole", decimal.NewNullDecimal(decimal.RequireFromString("5000.00")), 5000, true},
		{"rounds half up", decimal.NewNullDecimal(decimal.RequireFromString("99.50")), 100, true},
		{"rounds down", decimal.NewNullDecimal(decimal.RequireFromString("99.49")), 99, true},
		{"no price", decimal.NullDecimal{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Product{Price: tt.price}.UnitPrice()
			assert.Equal(t, tt.priced, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
