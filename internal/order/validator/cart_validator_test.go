package validator

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator() *CartValidator {
	return NewWithClock(func() time.Time { return fixedNow })
}

// decode mirrors how the HTTP adapter hands payloads to the validator.
func decode(t *testing.T, body string) any {
	t.Helper()
	var payload any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %T (%v)", err, err)
	assert.Equal(t, code, ve.Code)
}

func TestValidate_SingleItem(t *testing.T) {
	payload := decode(t, `{"items":[{"sku":"A1","name":"Widget","price":100,"qty":2}],"total":1,"page":"/cart/"}`)

	order, err := newTestValidator().Validate(payload)

	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{SKU: "A1", Name: "Widget", UnitPrice: 100, Quantity: 2}}, order.Items)
	assert.Equal(t, int64(200), order.Total)
	assert.Equal(t, "UAH", order.Currency)
	assert.Equal(t, "site", order.Source)
	assert.Equal(t, "/cart/", order.Page)
	assert.Equal(t, fixedNow.UnixMilli(), order.ClientTS)
	assert.Equal(t, domain.StateNew, order.State)
}

func TestValidate_TotalIsAlwaysRecomputed(t *testing.T) {
	faker := gofakeit.New(42)

	for run := 0; run < 50; run++ {
		n := faker.IntRange(1, 8)
		items := make([]any, n)
		var want int64
		for i := range items {
			price := faker.IntRange(0, 100000)
			qty := faker.IntRange(1, 20)
			want += int64(price * qty)
			items[i] = map[string]any{
				"sku":   faker.LetterN(6),
				"name":  faker.ProductName(),
				"price": float64(price),
				"qty":   float64(qty),
			}
		}
		payload := map[string]any{"items": items, "total": float64(faker.IntRange(0, 10))}

		order, err := newTestValidator().Validate(payload)

		require.NoError(t, err)
		assert.Equal(t, want, order.Total)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperrors.Code
	}{
		{"array body", `[1,2,3]`, apperrors.CodeInvalidFormat},
		{"string body", `"order"`, apperrors.CodeInvalidFormat},
		{"null body", `null`, apperrors.CodeInvalidFormat},
		{"no items", `{}`, apperrors.CodeEmptyCart},
		{"empty items", `{"items":[]}`, apperrors.CodeEmptyCart},
		{"items not array", `{"items":{"sku":"A1"}}`, apperrors.CodeEmptyCart},
		{"item not object", `{"items":["A1"]}`, apperrors.CodeInvalidItems},
		{"zero qty", `{"items":[{"sku":"A1","price":10,"qty":0}]}`, apperrors.CodeInvalidQuantity},
		{"negative qty", `{"items":[{"sku":"A1","price":10,"qty":-1}]}`, apperrors.CodeInvalidQuantity},
		{"missing qty", `{"items":[{"sku":"A1","price":10}]}`, apperrors.CodeInvalidQuantity},
		{"qty not a number", `{"items":[{"sku":"A1","price":10,"qty":"two"}]}`, apperrors.CodeInvalidQuantity},
		{"line total overflows", `{"items":[{"sku":"A1","price":10,"qty":1000000000000000000}]}`, apperrors.CodeInvalidQuantity},
		{
			"order total overflows",
			`{"items":[{"sku":"A1","price":100,"qty":90000000000000000},{"sku":"B2","price":100,"qty":90000000000000000}]}`,
			apperrors.CodeInvalidQuantity,
		},
		{"hex qty rejected", `{"items":[{"sku":"A1","price":10,"qty":"0x10"}]}`, apperrors.CodeInvalidQuantity},
		{
			"one bad line rejects the cart",
			`{"items":[{"sku":"A1","price":10,"qty":1},{"sku":"B2","price":10,"qty":0}]}`,
			apperrors.CodeInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := newTestValidator().Validate(decode(t, tt.body))

			assert.Nil(t, order)
			requireCode(t, err, tt.code)
		})
	}
}

func TestValidate_Coercion(t *testing.T) {
	payload := decode(t, `{"items":[
		{"sku":"A1","name":"A","price":"150","qty":" 3 "},
		{"sku":"B2","name":"B","price":"abc","qty":1},
		{"sku":"C3","name":"C","price":null,"qty":2.0},
		{"sku":"D4","name":"D","price":-50,"qty":1},
		{"sku":"E5","name":"E","price":"010","qty":"010"},
		{"sku":"F6","name":"F","price":"0x10","qty":"08"}
	]}`)

	order, err := newTestValidator().Validate(payload)

	require.NoError(t, err)
	require.Len(t, order.Items, 6)
	assert.Equal(t, int64(150), order.Items[0].UnitPrice)
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.Equal(t, int64(0), order.Items[1].UnitPrice)
	assert.Equal(t, int64(0), order.Items[2].UnitPrice)
	assert.Equal(t, int64(2), order.Items[2].Quantity)
	assert.Equal(t, int64(0), order.Items[3].UnitPrice)
	assert.Equal(t, int64(10), order.Items[4].UnitPrice)
	assert.Equal(t, int64(10), order.Items[4].Quantity)
	assert.Equal(t, int64(0), order.Items[5].UnitPrice)
	assert.Equal(t, int64(8), order.Items[5].Quantity)
	assert.Equal(t, int64(550), order.Total)
}

func TestValidate_TruncatesAndDefaults(t *testing.T) {
	longSKU := strings.Repeat("S", 80)
	longName := strings.Repeat("Ж", 200)
	payload := map[string]any{
		"items": []any{
			map[string]any{"sku": "  " + longSKU + "  ", "name": longName, "price": float64(1), "qty": float64(1)},
			map[string]any{"sku": float64(123), "name": "   ", "price": float64(1), "qty": float64(1)},
		},
		"currency": "usd",
		"source":   "landing",
		"ts":       float64(1700000000000),
	}

	order, err := newTestValidator().Validate(payload)

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("S", domain.MaxSKULength), order.Items[0].SKU)
	assert.Equal(t, domain.MaxNameLength, len([]rune(order.Items[0].Name)))
	assert.Equal(t, "123", order.Items[1].SKU)
	assert.Equal(t, domain.DefaultItemName, order.Items[1].Name)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "landing", order.Source)
	assert.Equal(t, int64(1700000000000), order.ClientTS)
}

func TestValidate_UnknownCurrencyAcceptedAsIs(t *testing.T) {
	order, err := newTestValidator().Validate(decode(t, `{"items":[{"qty":1}],"currency":"btcx"}`))

	require.NoError(t, err)
	assert.Equal(t, "BTCX", order.Currency)
}

func TestValidate_BadTimestampDefaultsToNow(t *testing.T) {
	order, err := newTestValidator().Validate(decode(t, `{"items":[{"qty":1}],"ts":"yesterday"}`))

	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), order.ClientTS)
}
