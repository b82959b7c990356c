package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

// handleStaffAction runs a manager button (mgr_<action>_<orderId>). Buttons
// are honoured only inside the configured orders chat.
func (b *Bot) handleStaffAction(ctx context.Context, u Update) []Reply {
	if b.settings.OrdersChatID == 0 || u.ChatID != b.settings.OrdersChatID {
		b.logger.Warn("staff action outside the orders chat",
			zap.Int64("userId", u.UserID),
			zap.Int64("chatId", u.ChatID),
		)
		return []Reply{{ChatID: u.ChatID, Text: staffOnlyText}}
	}

	action, orderID, ok := strings.Cut(strings.TrimPrefix(u.Callback.Data, cbStaffPrefix), "_")
	if !ok || !domain.ValidOrderID(orderID) {
		b.logger.Warn("malformed staff action", zap.String("data", u.Callback.Data))
		return nil
	}

	var (
		order *domain.Order
		err   error
	)
	switch action {
	case staffConfirm:
		order, err = b.lifecycle.StaffConfirm(ctx, orderID)
	case staffReject:
		order, err = b.lifecycle.StaffReject(ctx, orderID)
	case staffClose:
		order, err = b.lifecycle.Close(ctx, orderID)
	case staffTTN:
		b.sessions.Save(&Session{UserID: u.UserID, Step: StepTracking, TrackingOrderID: orderID})
		return []Reply{{ChatID: u.ChatID, Text: askTrackingText(orderID)}}
	default:
		b.logger.Warn("unknown staff action", zap.String("action", action))
		return nil
	}

	if err != nil {
		return []Reply{{ChatID: u.ChatID, Text: staffFailedText(orderID, err)}}
	}

	b.logger.Info("staff action applied",
		zap.String("orderId", order.ID),
		zap.String("action", action),
		zap.Int64("staffId", u.UserID),
	)
	return b.staffOutcome(u.ChatID, order)
}

func (b *Bot) inOrdersChat(u Update) bool {
	return b.settings.OrdersChatID != 0 && u.ChatID == b.settings.OrdersChatID
}

// handleOrdersChat keeps the staff chat quiet: only a pending waybill
// number or its cancellation is answered there.
func (b *Bot) handleOrdersChat(ctx context.Context, u Update) []Reply {
	session := b.sessions.Get(u.UserID)
	if session.Step != StepTracking {
		return nil
	}
	if u.Command == "cancel" {
		return b.cancel(u)
	}
	return b.handleTracking(ctx, session, u)
}

// handleTracking takes the waybill number typed by a staff member. Invalid
// numbers re-prompt; anything else ends the tracking step.
func (b *Bot) handleTracking(ctx context.Context, session *Session, u Update) []Reply {
	text, ok := textInput(u)
	if !ok {
		return []Reply{{ChatID: u.ChatID, Text: invalidTrackingTxt}}
	}

	order, err := b.lifecycle.AttachTracking(ctx, session.TrackingOrderID, text)
	if err != nil {
		if ve, isValidation := apperrors.IsValidationError(err); isValidation && ve.Code == apperrors.CodeInvalidTrackingID {
			return []Reply{{ChatID: u.ChatID, Text: invalidTrackingTxt}}
		}
		b.sessions.Delete(u.UserID)
		return []Reply{{ChatID: u.ChatID, Text: staffFailedText(session.TrackingOrderID, err)}}
	}

	b.sessions.Delete(u.UserID)
	b.logger.Info("tracking attached",
		zap.String("orderId", order.ID),
		zap.Int64("staffId", u.UserID),
	)
	return b.staffOutcome(u.ChatID, order)
}

// staffOutcome acknowledges the action to staff with the buttons still
// available and tells the customer when the new state concerns them.
func (b *Bot) staffOutcome(staffChatID int64, order *domain.Order) []Reply {
	replies := []Reply{{ChatID: staffChatID, Text: staffAckText(order), Keyboard: staffKeyboard(order)}}

	var customerText string
	switch order.State {
	case domain.StateConfirmed:
		customerText = customerConfirmedText(order)
	case domain.StateNeedsClarification:
		customerText = customerRejectedText(order, b.settings)
	case domain.StateShipped:
		customerText = customerShippedText(order)
	default:
		return replies
	}

	if order.CustomerChatID == 0 {
		return append(replies, Reply{ChatID: staffChatID, Text: customerUnreachableText(order)})
	}
	return append(replies, Reply{ChatID: order.CustomerChatID, Text: customerText})
}
