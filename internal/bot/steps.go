package bot

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"orderdesk/internal/domain"
)

const (
	minNameLength = 2
	minCityLength = 3
)

func (b *Bot) handleIdle(_ context.Context, _ *Session, u Update) []Reply {
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}
	if u.Callback != nil {
		return nil
	}
	return []Reply{{ChatID: u.ChatID, Text: idleHintText, Keyboard: menuKeyboard()}}
}

// textInput returns the typed text of a plain message. Photos and buttons
// yield false.
func textInput(u Update) (string, bool) {
	if u.Callback != nil || u.PhotoID != "" || u.Text == "" {
		return "", false
	}
	return u.Text, true
}

func (b *Bot) contact(session *Session) *domain.Contact {
	if session.Draft.Contact == nil {
		session.Draft.Contact = &domain.Contact{}
	}
	return session.Draft.Contact
}

func (b *Bot) handleFirstName(_ context.Context, session *Session, u Update) []Reply {
	text, ok := textInput(u)
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}
	if !ok || utf8.RuneCountInString(text) < minNameLength {
		return []Reply{{ChatID: u.ChatID, Text: shortFirstNameText, Keyboard: cancelKeyboard()}}
	}

	b.contact(session).FirstName = text
	session.Step = StepLastName
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: askLastNameText(text), Keyboard: cancelKeyboard()}}
}

func (b *Bot) handleLastName(_ context.Context, session *Session, u Update) []Reply {
	text, ok := textInput(u)
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}
	if !ok || utf8.RuneCountInString(text) < minNameLength {
		return []Reply{{ChatID: u.ChatID, Text: shortLastNameText, Keyboard: cancelKeyboard()}}
	}

	b.contact(session).LastName = text
	session.Step = StepPhone
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: askPhoneText(text), Keyboard: cancelKeyboard()}}
}

func (b *Bot) handlePhone(_ context.Context, session *Session, u Update) []Reply {
	text, _ := textInput(u)
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}
	phone, err := domain.NormalizePhone(text)
	if err != nil {
		return []Reply{{ChatID: u.ChatID, Text: invalidPhoneText, Keyboard: cancelKeyboard()}}
	}

	b.contact(session).Phone = phone
	session.Step = StepCity
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: askCityText(phone), Keyboard: cancelKeyboard()}}
}

func (b *Bot) handleCity(_ context.Context, session *Session, u Update) []Reply {
	text, ok := textInput(u)
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}
	if !ok || utf8.RuneCountInString(text) < minCityLength {
		return []Reply{{ChatID: u.ChatID, Text: shortCityText, Keyboard: cancelKeyboard()}}
	}

	b.contact(session).City = text
	session.Step = StepComment
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: askCommentText(text), Keyboard: commentKeyboard()}}
}

// handleComment is the last contact step; it closes contact collection on
// the draft and shows the summary for confirmation.
func (b *Bot) handleComment(_ context.Context, session *Session, u Update) []Reply {
	if u.PhotoID != "" {
		return []Reply{{ChatID: u.ChatID, Text: photoNotNowText}}
	}

	comment := ""
	switch {
	case u.Callback != nil && u.Callback.Data == cbSkipComment:
	case u.Callback != nil:
		return nil
	case u.Text == "-" || u.Text == "":
	default:
		comment = u.Text
	}

	if err := session.Draft.Apply(domain.EventContactCollected); err != nil {
		b.logger.Error("draft refused contact", zap.Int64("userId", u.UserID), zap.Error(err))
		return []Reply{{ChatID: u.ChatID, Text: submitFailedText}}
	}
	b.contact(session).Comment = comment
	session.Step = StepConfirm
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: summaryText(session.Draft), Keyboard: confirmationKeyboard()}}
}

func (b *Bot) handleConfirm(_ context.Context, session *Session, u Update) []Reply {
	if u.Callback == nil {
		return []Reply{{ChatID: u.ChatID, Text: confirmHintText, Keyboard: confirmationKeyboard()}}
	}

	switch u.Callback.Data {
	case cbConfirmYes:
		session.Step = StepPayment
		b.sessions.Save(session)
		return []Reply{{ChatID: u.ChatID, Text: choosePaymentText(session.Draft), Keyboard: paymentKeyboard(b.settings)}}
	case cbConfirmNo:
		// The draft never left memory, so editing the contact simply starts
		// collection over.
		session.Draft.Contact = nil
		session.Draft.State = domain.StateNew
		session.Step = StepFirstName
		b.sessions.Save(session)
		return []Reply{{ChatID: u.ChatID, Text: restartContactText, Keyboard: cancelKeyboard()}}
	}
	return nil
}

func (b *Bot) handlePayment(_ context.Context, session *Session, u Update) []Reply {
	input := u.Text
	if u.Callback != nil {
		input = u.Callback.Data
	}

	option, ok := b.settings.PaymentByInput(input)
	if !ok {
		return []Reply{{ChatID: u.ChatID, Text: unknownPaymentText, Keyboard: paymentKeyboard(b.settings)}}
	}

	if err := session.Draft.Apply(domain.EventPaymentChosen); err != nil {
		b.logger.Error("draft refused payment", zap.Int64("userId", u.UserID), zap.Error(err))
		return []Reply{{ChatID: u.ChatID, Text: submitFailedText}}
	}
	session.Draft.PaymentMethod = option.Method
	session.Step = StepProof
	b.sessions.Save(session)
	return []Reply{{ChatID: u.ChatID, Text: paymentDetailsText(option, session.Draft.Total), Keyboard: proofKeyboard()}}
}

func (b *Bot) handleProof(ctx context.Context, session *Session, u Update) []Reply {
	switch {
	case u.PhotoID != "":
		session.Draft.PaymentProof = u.PhotoID
	case u.Callback != nil && u.Callback.Data == cbSkipPhoto:
		session.Draft.PaymentProof = ""
	default:
		return []Reply{{ChatID: u.ChatID, Text: proofHintText, Keyboard: proofKeyboard()}}
	}
	return b.submit(ctx, session, u)
}

// submit persists the draft and hands it to staff. The session is cleared
// once the order is stored, whether or not staff could be reached; a storage
// failure keeps it at the proof step so the user can retry.
func (b *Bot) submit(ctx context.Context, session *Session, u Update) []Reply {
	result, err := b.lifecycle.Submit(ctx, session.Draft)
	if err != nil {
		b.logger.Error("failed to submit order", zap.Int64("userId", u.UserID), zap.Error(err))
		b.sessions.Save(session)
		return []Reply{{ChatID: u.ChatID, Text: submitFailedText, Keyboard: proofKeyboard()}}
	}

	b.sessions.Delete(u.UserID)

	text := acceptedText(result.Order, b.settings)
	if !result.Delivered {
		text = acceptedFallbackText(result.Order, b.settings)
	}
	return []Reply{{ChatID: u.ChatID, Text: text, Keyboard: menuKeyboard()}}
}
