package messaging

import (
	"context"
	"strings"
)

// Origin identifies who sent an event and where replies go.
type Origin struct {
	UserID int64
	ChatID int64
}

// File is an uploaded photo or document as referenced by the transport.
type File struct {
	FileID   string
	UniqueID string
	Name     string
}

// Event is an incoming user event: either a *Message or a *Callback.
type Event interface {
	// Source returns the sender of the event.
	Source() Origin
	// Reply answers the event: messages get a new message, callbacks edit the
	// message carrying the pressed button.
	Reply(ctx context.Context, s Sender, text string, kb *Keyboard) error

	isEvent()
}

// Message is a text message or a media upload.
type Message struct {
	Origin
	MessageID int
	Text      string
	Photo     *File
	Document  *File
}

// Callback is a button press on an inline keyboard.
type Callback struct {
	Origin
	ID        string
	MessageID int
	Data      string
}

func (m *Message) Source() Origin  { return m.Origin }
func (c *Callback) Source() Origin { return c.Origin }

func (*Message) isEvent()  {}
func (*Callback) isEvent() {}

func (m *Message) Reply(ctx context.Context, s Sender, text string, kb *Keyboard) error {
	return s.SendText(ctx, m.ChatID, text, kb)
}

// Reply edits the originating message. Reply keyboards cannot be attached to an
// edited message, so those are sent as a new message instead.
func (c *Callback) Reply(ctx context.Context, s Sender, text string, kb *Keyboard) error {
	if kb != nil && !kb.Inline {
		return s.SendText(ctx, c.ChatID, text, kb)
	}
	return s.EditText(ctx, c.ChatID, c.MessageID, text, kb)
}

// HasMedia reports whether the message carries a photo or a document.
func (m *Message) HasMedia() bool {
	return m.Photo != nil || m.Document != nil
}

// Command returns the slash command name without the leading slash or a
// "@botname" suffix, or "" when the text is not a command.
func (m *Message) Command() string {
	if !strings.HasPrefix(m.Text, "/") {
		return ""
	}
	name := strings.Fields(m.Text[1:])
	if len(name) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(name[0], "@")
	return cmd
}
