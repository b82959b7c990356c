package bot

import (
	"context"
	"fmt"

	"orderdesk/internal/domain"
)

// StaffNotifier posts submitted orders to the orders chat, with the payment
// screenshot attached when there is one.
type StaffNotifier struct {
	sender   Sender
	settings Settings
}

func NewStaffNotifier(sender Sender, settings Settings) *StaffNotifier {
	return &StaffNotifier{sender: sender, settings: settings}
}

func (n *StaffNotifier) NotifySubmitted(ctx context.Context, order *domain.Order) error {
	if n.settings.OrdersChatID == 0 {
		return fmt.Errorf("orders chat is not configured")
	}

	reply := Reply{
		ChatID:   n.settings.OrdersChatID,
		Text:     StaffSummary(order, n.settings),
		PhotoID:  order.PaymentProof,
		Keyboard: staffKeyboard(order),
	}
	if err := n.sender.Send(ctx, reply); err != nil {
		return fmt.Errorf("sending order %s to staff: %w", order.ID, err)
	}
	return nil
}
