package telegram

import (
	"context"
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"orderdesk/internal/bot"
)

const maxCaptionLength = 1024

// api is the subset of *tgbotapi.BotAPI the client uses.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Handler interface {
	Handle(ctx context.Context, u bot.Update) []bot.Reply
}

// Client bridges the Telegram Bot API and the transport-free bot package.
type Client struct {
	api         api
	pollTimeout int
	logger      *zap.Logger
}

func New(token string, pollTimeout int, logger *zap.Logger) (*Client, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("username", botAPI.Self.UserName))
	return newClient(botAPI, pollTimeout, logger), nil
}

func newClient(a api, pollTimeout int, logger *zap.Logger) *Client {
	return &Client{api: a, pollTimeout: pollTimeout, logger: logger}
}

// Run long-polls for updates and feeds them to h one at a time until ctx is
// done.
func (c *Client) Run(ctx context.Context, h Handler) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = c.pollTimeout
	updates := c.api.GetUpdatesChan(cfg)
	defer c.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			c.dispatch(ctx, h, raw)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, h Handler, raw tgbotapi.Update) {
	u, ok := FromAPI(raw)
	if !ok {
		return
	}

	if u.Callback != nil {
		if _, err := c.api.Request(tgbotapi.NewCallback(u.Callback.ID, "")); err != nil {
			c.logger.Warn("failed to answer callback", zap.Error(err))
		}
	}

	for _, reply := range h.Handle(ctx, u) {
		if err := c.Send(ctx, reply); err != nil {
			c.logger.Error("failed to deliver reply",
				zap.Int64("chatId", reply.ChatID),
				zap.Error(err),
			)
		}
	}
}

// Send delivers one reply. Photos whose caption exceeds the API limit are
// sent bare, followed by the text.
func (c *Client) Send(ctx context.Context, reply bot.Reply) error {
	for _, msg := range ToAPI(reply) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.api.Send(msg); err != nil {
			return fmt.Errorf("sending to chat %d: %w", reply.ChatID, err)
		}
	}
	return nil
}

// FromAPI converts a Telegram update. Updates the bot has no use for, such as
// edits or channel posts, yield false.
func FromAPI(raw tgbotapi.Update) (bot.Update, bool) {
	if q := raw.CallbackQuery; q != nil {
		if q.From == nil || q.Message == nil || q.Message.Chat == nil {
			return bot.Update{}, false
		}
		return bot.Update{
			UserID:    q.From.ID,
			ChatID:    q.Message.Chat.ID,
			Username:  q.From.UserName,
			FirstName: q.From.FirstName,
			Callback:  &bot.Callback{ID: q.ID, Data: q.Data, MessageID: q.Message.MessageID},
		}, true
	}

	m := raw.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return bot.Update{}, false
	}

	u := bot.Update{
		UserID:    m.From.ID,
		ChatID:    m.Chat.ID,
		Username:  m.From.UserName,
		FirstName: m.From.FirstName,
	}
	switch {
	case m.IsCommand():
		u.Command = m.Command()
		u.CommandArgs = m.CommandArguments()
	case len(m.Photo) > 0:
		// The last size is the largest.
		u.PhotoID = m.Photo[len(m.Photo)-1].FileID
		u.Text = m.Caption
	default:
		u.Text = m.Text
	}
	return u, true
}

func ToAPI(reply bot.Reply) []tgbotapi.Chattable {
	markup := keyboardMarkup(reply.Keyboard)

	if reply.PhotoID == "" {
		msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if markup != nil {
			msg.ReplyMarkup = markup
		}
		return []tgbotapi.Chattable{msg}
	}

	photo := tgbotapi.NewPhoto(reply.ChatID, tgbotapi.FileID(reply.PhotoID))
	if utf8.RuneCountInString(reply.Text) <= maxCaptionLength {
		photo.Caption = reply.Text
		photo.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		return []tgbotapi.Chattable{photo}
	}

	text := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	text.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		text.ReplyMarkup = markup
	}
	return []tgbotapi.Chattable{photo, text}
}

func keyboardMarkup(kb *bot.Keyboard) any {
	switch {
	case kb == nil:
		return nil
	case kb.Remove:
		return tgbotapi.NewRemoveKeyboard(true)
	case kb.Inline:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				if b.URL != "" {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				} else {
					buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
				}
			}
			rows = append(rows, buttons)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}
