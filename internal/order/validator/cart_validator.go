package validator

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/currency"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

type CartValidator struct {
	now func() time.Time
}

func New() *CartValidator {
	return &CartValidator{now: time.Now}
}

func NewWithClock(now func() time.Time) *CartValidator {
	return &CartValidator{now: now}
}

// Validate turns an untyped cart payload (a decoded JSON document) into a
// draft order in state new. One bad quantity rejects the whole cart; bad
// prices degrade to 0 instead.
func (v *CartValidator) Validate(payload any) (*domain.Order, error) {
	fields, ok := payload.(map[string]any)
	if !ok {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidFormat, "invalid order format", apperrors.ValidationDetail{
			Field:   "body",
			Message: "order must be a JSON object",
		})
	}

	rawItems, ok := fields["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return nil, apperrors.NewValidationError(apperrors.CodeEmptyCart, "cart is empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must be a non-empty array",
		})
	}

	items := make([]domain.CartItem, 0, len(rawItems))
	for idx, raw := range rawItems {
		item, err := validateItem(idx, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if _, ok := domain.CheckedTotal(items); !ok {
		return nil, apperrors.NewValidationError(apperrors.CodeInvalidQuantity, "invalid item quantity", apperrors.ValidationDetail{
			Field:   "items",
			Message: "order total is out of range",
		})
	}

	order := &domain.Order{
		Items:    items,
		Currency: normalizeCurrency(fields["currency"]),
		Source:   stringOr(fields["source"], domain.DefaultSource),
		Page:     strings.TrimSpace(cast.ToString(fields["page"])),
		ClientTS: v.clientTimestamp(fields["ts"]),
		State:    domain.StateNew,
	}
	order.RecomputeTotal()

	return order, nil
}

func validateItem(idx int, raw any) (domain.CartItem, error) {
	field := "items[" + strconv.Itoa(idx) + "]"

	fields, ok := raw.(map[string]any)
	if !ok {
		return domain.CartItem{}, apperrors.NewValidationError(apperrors.CodeInvalidItems, "invalid cart items", apperrors.ValidationDetail{
			Field:   field,
			Message: "each item must be an object",
		})
	}

	qty, ok := toInt(fields["qty"])
	if !ok || qty <= 0 {
		return domain.CartItem{}, apperrors.NewValidationError(apperrors.CodeInvalidQuantity, "invalid item quantity", apperrors.ValidationDetail{
			Field:   field + ".qty",
			Message: "quantity must be a positive integer",
		})
	}

	price, ok := toInt(fields["price"])
	if !ok || price < 0 {
		price = 0
	}

	name := truncate(strings.TrimSpace(cast.ToString(fields["name"])), domain.MaxNameLength)
	if name == "" {
		name = domain.DefaultItemName
	}

	return domain.CartItem{
		SKU:       truncate(strings.TrimSpace(cast.ToString(fields["sku"])), domain.MaxSKULength),
		Name:      name,
		UnitPrice: price,
		Quantity:  qty,
	}, nil
}

func (v *CartValidator) clientTimestamp(raw any) int64 {
	ts, ok := toInt(raw)
	if !ok || ts == 0 {
		return v.now().UnixMilli()
	}
	return ts
}

func toInt(raw any) (int64, bool) {
	if raw == nil {
		return 0, false
	}
	// Strings are decimal only; cast would also accept octal and hex forms.
	if s, ok := raw.(string); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalizeCurrency upper-cases the code; known ISO 4217 units are
// canonicalised, anything else is kept as sent.
func normalizeCurrency(raw any) string {
	code := strings.ToUpper(strings.TrimSpace(cast.ToString(raw)))
	if code == "" {
		return domain.DefaultCurrency
	}
	if unit, err := currency.ParseISO(code); err == nil {
		return unit.String()
	}
	return code
}

func stringOr(raw any, fallback string) string {
	s := strings.TrimSpace(cast.ToString(raw))
	if s == "" {
		return fallback
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
