package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/domain"
)

func submittedOrder() *domain.Order {
	order := &domain.Order{
		ID:               "abcd123456",
		Items:            []domain.CartItem{{SKU: "AD-1", Name: "Антена <pro>", UnitPrice: 5000, Quantity: 2}},
		Currency:         "UAH",
		Source:           SourceTelegram,
		Contact:          &domain.Contact{FirstName: "Іван", LastName: "Петренко", Phone: "+380501234567", City: "Київ, №25", Comment: "дзвонити після 18"},
		PaymentMethod:    domain.PaymentFOP,
		CustomerChatID:   42,
		CustomerUsername: "buyer",
		State:            domain.StateSubmittedToStaff,
		CreatedAt:        time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC),
	}
	order.RecomputeTotal()
	return order
}

func TestStaffNotifier_SendsSummaryToOrdersChat(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewStaffNotifier(sender, testSettings())

	require.NoError(t, notifier.NotifySubmitted(context.Background(), submittedOrder()))

	sent := sender.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, ordersChat, sent[0].ChatID)
	assert.Empty(t, sent[0].PhotoID)
	assert.Contains(t, sent[0].Text, "#abcd123456")
	assert.Contains(t, sent[0].Text, "10000 грн")
	assert.Contains(t, sent[0].Text, "Антена &lt;pro&gt;")
	assert.Contains(t, sent[0].Text, "дзвонити після 18")
	assert.Contains(t, sent[0].Text, "ФОП (безготівковий розрахунок)")
	assert.Contains(t, sent[0].Text, "04.05.2026 о 14:30")
	assert.Contains(t, sent[0].Text, "Скрін:</b> немає")

	require.NotNil(t, sent[0].Keyboard)
	require.Len(t, sent[0].Keyboard.Rows, 1)
	assert.Equal(t, "mgr_confirm_abcd123456", sent[0].Keyboard.Rows[0][0].Data)
	assert.Equal(t, "mgr_reject_abcd123456", sent[0].Keyboard.Rows[0][1].Data)
}

func TestStaffNotifier_AttachesProof(t *testing.T) {
	sender := &recordingSender{}
	order := submittedOrder()
	order.PaymentProof = "photo-1"

	require.NoError(t, NewStaffNotifier(sender, testSettings()).NotifySubmitted(context.Background(), order))

	assert.Equal(t, "photo-1", sender.sent()[0].PhotoID)
	assert.Contains(t, sender.sent()[0].Text, "Скрін:</b> є")
}

func TestStaffNotifier_Failures(t *testing.T) {
	unconfigured := NewStaffNotifier(&recordingSender{}, Settings{})
	assert.Error(t, unconfigured.NotifySubmitted(context.Background(), submittedOrder()))

	cause := errors.New("chat not found")
	failing := NewStaffNotifier(&recordingSender{err: cause}, testSettings())
	err := failing.NotifySubmitted(context.Background(), submittedOrder())
	assert.ErrorIs(t, err, cause)
}

func TestStaffKeyboard_FollowsState(t *testing.T) {
	order := submittedOrder()

	order.State = domain.StateConfirmed
	kb := staffKeyboard(order)
	require.Len(t, kb.Rows, 1)
	assert.Equal(t, "mgr_ttn_abcd123456", kb.Rows[0][0].Data)
	assert.Equal(t, "mgr_close_abcd123456", kb.Rows[0][1].Data)

	order.State = domain.StateClosed
	assert.Nil(t, staffKeyboard(order))
}

func TestSettings_PaymentByInput(t *testing.T) {
	s := testSettings()

	tests := []struct {
		input string
		want  domain.PaymentMethod
	}{
		{"pay_privat", domain.PaymentPrivat},
		{"💳 ПУМБ", domain.PaymentPUMB},
		{"a-bank", domain.PaymentABank},
		{"fop", domain.PaymentFOP},
		{"🏢 ФОП", domain.PaymentFOP},
	}
	for _, tt := range tests {
		option, ok := s.PaymentByInput(tt.input)
		require.True(t, ok, tt.input)
		assert.Equal(t, tt.want, option.Method, tt.input)
	}

	_, ok := s.PaymentByInput("pay_cash")
	assert.False(t, ok)
	_, ok = s.PaymentByInput("готівка")
	assert.False(t, ok)
}

func TestNewSettings_StripsHandles(t *testing.T) {
	s := testSettings()

	assert.Equal(t, "shop_manager", s.ManagerUsername)
	assert.Equal(t, "https://t.me/shop", s.channelURL())
	assert.Equal(t, "менеджер", Settings{}.managerHandle())
	assert.Nil(t, linksKeyboard(Settings{}))
}
