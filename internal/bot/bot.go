package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/order/service"
)

// Lifecycle is the part of the order lifecycle the chat front-end drives.
type Lifecycle interface {
	Submit(ctx context.Context, draft *domain.Order) (*service.SubmitResult, error)
	StaffConfirm(ctx context.Context, id string) (*domain.Order, error)
	StaffReject(ctx context.Context, id string) (*domain.Order, error)
	AttachTracking(ctx context.Context, id string, trackingID string) (*domain.Order, error)
	Close(ctx context.Context, id string) (*domain.Order, error)
}

type UpdateRecorder interface {
	ObserveBotUpdate(kind string)
}

type stepHandler func(ctx context.Context, session *Session, u Update) []Reply

// Bot is the conversational order form. Updates must be handled one at a
// time; replies are returned for the transport to deliver.
type Bot struct {
	sessions  SessionStore
	lifecycle Lifecycle
	validator CartValidator
	settings  Settings
	recorder  UpdateRecorder
	logger    *zap.Logger

	steps map[Step]stepHandler
}

func New(
	sessions SessionStore,
	lifecycle Lifecycle,
	validator CartValidator,
	settings Settings,
	recorder UpdateRecorder,
	logger *zap.Logger,
) *Bot {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	b := &Bot{
		sessions:  sessions,
		lifecycle: lifecycle,
		validator: validator,
		settings:  settings,
		recorder:  recorder,
		logger:    logger,
	}
	b.steps = map[Step]stepHandler{
		StepIdle:      b.handleIdle,
		StepFirstName: b.handleFirstName,
		StepLastName:  b.handleLastName,
		StepPhone:     b.handlePhone,
		StepCity:      b.handleCity,
		StepComment:   b.handleComment,
		StepConfirm:   b.handleConfirm,
		StepPayment:   b.handlePayment,
		StepProof:     b.handleProof,
		StepTracking:  b.handleTracking,
	}
	return b
}

func (b *Bot) Handle(ctx context.Context, u Update) []Reply {
	b.recorder.ObserveBotUpdate(u.Kind())
	u.Text = strings.TrimSpace(u.Text)

	if u.Callback != nil && strings.HasPrefix(u.Callback.Data, cbStaffPrefix) {
		return b.handleStaffAction(ctx, u)
	}
	if b.inOrdersChat(u) {
		return b.handleOrdersChat(ctx, u)
	}

	switch u.Command {
	case "start":
		return b.handleStart(u)
	case "cancel":
		return b.cancel(u)
	}

	if u.Callback != nil && u.Callback.Data == cbCancel {
		return b.cancel(u)
	}

	if replies, ok := b.menu(u); ok {
		return replies
	}

	session := b.sessions.Get(u.UserID)
	handler, ok := b.steps[session.Step]
	if !ok {
		b.logger.Warn("session in unknown step, resetting",
			zap.Int64("userId", u.UserID),
			zap.String("step", string(session.Step)),
		)
		b.sessions.Delete(u.UserID)
		handler = b.handleIdle
	}
	return handler(ctx, session, u)
}

// handleStart opens a new draft when the command carries a valid cart, and
// greets the user otherwise. Any previous draft is dropped.
func (b *Bot) handleStart(u Update) []Reply {
	b.sessions.Delete(u.UserID)

	if u.CommandArgs != "" {
		draft, err := DraftFromDeepLink(b.validator, u.CommandArgs, u)
		if err == nil {
			b.sessions.Save(&Session{UserID: u.UserID, Step: StepFirstName, Draft: draft})
			b.logger.Info("draft opened from deep link",
				zap.Int64("userId", u.UserID),
				zap.Int("itemCount", len(draft.Items)),
				zap.Int64("total", draft.Total),
			)
			return []Reply{{ChatID: u.ChatID, Text: cartText(draft), Keyboard: cancelKeyboard()}}
		}
		b.logger.Warn("failed to parse deep link", zap.Int64("userId", u.UserID), zap.Error(err))
	}

	return b.welcome(u)
}

func (b *Bot) welcome(u Update) []Reply {
	replies := []Reply{{ChatID: u.ChatID, Text: welcomeText(u, b.settings), Keyboard: menuKeyboard()}}
	if links := linksKeyboard(b.settings); links != nil {
		replies = append(replies, Reply{ChatID: u.ChatID, Text: chooseActionText, Keyboard: links})
	}
	return replies
}

// menu answers the reply-keyboard buttons, which work in every step.
func (b *Bot) menu(u Update) ([]Reply, bool) {
	if u.Callback != nil || u.PhotoID != "" {
		return nil, false
	}

	var reply Reply
	switch u.Text {
	case MenuNewOrder:
		reply = Reply{Text: howToOrderText(b.settings), Keyboard: linksKeyboard(b.settings)}
	case MenuContactManager:
		reply = Reply{Text: contactManagerText(b.settings)}
	case MenuCatalog:
		reply = Reply{Text: catalogText(b.settings)}
	case MenuChannel:
		reply = Reply{Text: channelText(b.settings)}
	default:
		return nil, false
	}
	reply.ChatID = u.ChatID
	return []Reply{reply}, true
}

// cancel drops a customer draft. Nothing was persisted yet, so the draft is
// only moved to cancelled in memory and discarded.
func (b *Bot) cancel(u Update) []Reply {
	session := b.sessions.Get(u.UserID)
	if !session.Step.PreSubmission() || session.Draft == nil {
		if session.Step == StepTracking {
			b.sessions.Delete(u.UserID)
			return []Reply{{ChatID: u.ChatID, Text: "Введення ТТН скасовано."}}
		}
		return []Reply{{ChatID: u.ChatID, Text: nothingToCancel, Keyboard: menuKeyboard()}}
	}

	if err := session.Draft.Apply(domain.EventCancelled); err != nil {
		b.logger.Warn("draft refused cancellation", zap.Int64("userId", u.UserID), zap.Error(err))
	}
	b.sessions.Delete(u.UserID)
	b.logger.Info("draft cancelled", zap.Int64("userId", u.UserID), zap.String("step", string(session.Step)))

	return []Reply{{ChatID: u.ChatID, Text: cancelledText, Keyboard: menuKeyboard()}}
}

type nopRecorder struct{}

func (nopRecorder) ObserveBotUpdate(string) {}
