package bot

import "context"

// Update is one inbound chat event, already stripped of transport details.
type Update struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string

	Text        string
	Command     string
	CommandArgs string
	PhotoID     string

	Callback *Callback
}

type Callback struct {
	ID        string
	Data      string
	MessageID int
}

// Kind labels the update for metrics.
func (u Update) Kind() string {
	switch {
	case u.Callback != nil:
		return "callback"
	case u.Command != "":
		return "command"
	case u.PhotoID != "":
		return "photo"
	}
	return "text"
}

// Reply is an outbound message. A non-empty PhotoID sends a photo with Text
// as its caption. Text is HTML formatted.
type Reply struct {
	ChatID   int64
	Text     string
	PhotoID  string
	Keyboard *Keyboard
}

type Keyboard struct {
	// Inline keyboards are attached to the message; the others replace the
	// user's reply keyboard.
	Inline bool
	Rows   [][]Button
	Remove bool
}

type Button struct {
	Text string
	Data string
	URL  string
}

// Sender delivers replies outside of the update that triggered them, such as
// staff summaries.
type Sender interface {
	Send(ctx context.Context, reply Reply) error
}
