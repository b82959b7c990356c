package bot

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"orderdesk/internal/domain"
)

const SourceTelegram = "telegram"

// CartValidator turns an untyped cart payload into a draft order.
type CartValidator interface {
	Validate(payload any) (*domain.Order, error)
}

// DecodeDeepLink decodes a /start payload: base64url without padding over a
// JSON array of either compact [id, name, sku, price, qty] tuples or item
// objects. The result is a cart payload ready for the validator.
func DecodeDeepLink(param string) (map[string]any, error) {
	param = strings.TrimRight(strings.TrimSpace(param), "=")
	if param == "" {
		return nil, fmt.Errorf("empty deep link")
	}

	raw, err := base64.RawURLEncoding.DecodeString(param)
	if err != nil {
		return nil, fmt.Errorf("decoding deep link: %w", err)
	}

	var entries []any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing deep link: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("deep link carries no items")
	}

	items := make([]any, 0, len(entries))
	for i, entry := range entries {
		switch e := entry.(type) {
		case []any:
			items = append(items, compactItem(e))
		case map[string]any:
			items = append(items, e)
		default:
			return nil, fmt.Errorf("deep link item %d is neither a tuple nor an object", i)
		}
	}

	return map[string]any{
		"items":  items,
		"source": SourceTelegram,
	}, nil
}

// EncodeDeepLink is the inverse of DecodeDeepLink for compact tuples.
func EncodeDeepLink(items []domain.CartItem) (string, error) {
	tuples := make([][]any, 0, len(items))
	for i, item := range items {
		tuples = append(tuples, []any{i + 1, item.Name, item.SKU, item.UnitPrice, item.Quantity})
	}
	raw, err := json.Marshal(tuples)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func compactItem(tuple []any) map[string]any {
	at := func(i int) any {
		if i < len(tuple) {
			return tuple[i]
		}
		return nil
	}

	qty := at(4)
	if !truthy(qty) {
		qty = 1
	}

	return map[string]any{
		"name":  at(1),
		"sku":   at(2),
		"price": at(3),
		"qty":   qty,
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	}
	return cast.ToFloat64(v) != 0
}

// DraftFromDeepLink validates the decoded cart and stamps it with the chat
// the customer should be answered in.
func DraftFromDeepLink(validator CartValidator, param string, u Update) (*domain.Order, error) {
	payload, err := DecodeDeepLink(param)
	if err != nil {
		return nil, err
	}

	draft, err := validator.Validate(payload)
	if err != nil {
		return nil, err
	}

	draft.Source = SourceTelegram
	draft.CustomerChatID = u.ChatID
	draft.CustomerUsername = u.Username
	return draft, nil
}
