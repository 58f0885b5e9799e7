package router

import (
	"context"
	"log/slog"

	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/models"
)

// Request is an event being dispatched together with its context.
type Request struct {
	Event messaging.Event
	// User is the stored user who sent the event.
	User *models.User
	// Step is the user's wizard step at dispatch time.
	Step models.StateType

	sender   messaging.Sender
	answered bool
}

// NewRequest wraps an event sent by user.
func NewRequest(ev messaging.Event, user *models.User) *Request {
	return &Request{Event: ev, User: user}
}

// Message returns the message variant, or nil for callbacks.
func (r *Request) Message() *messaging.Message {
	m, _ := r.Event.(*messaging.Message)
	return m
}

// Callback returns the callback variant, or nil for messages.
func (r *Request) Callback() *messaging.Callback {
	c, _ := r.Event.(*messaging.Callback)
	return c
}

// Value is the literal matched by rules: message text or callback payload.
func (r *Request) Value() string {
	switch ev := r.Event.(type) {
	case *messaging.Message:
		return ev.Text
	case *messaging.Callback:
		return ev.Data
	default:
		return ""
	}
}

// Payload parses the callback payload.
func (r *Request) Payload() models.Payload {
	return models.ParsePayload(r.Value())
}

// ChatID is where replies go.
func (r *Request) ChatID() int64 {
	return r.Event.Source().ChatID
}

// UserID is the transport identity of the sender.
func (r *Request) UserID() int64 {
	return r.Event.Source().UserID
}

// Reply answers the event in place: a new message for messages, an edit for callbacks.
func (r *Request) Reply(ctx context.Context, text string, kb *messaging.Keyboard) error {
	return r.Event.Reply(ctx, r.sender, text, kb)
}

// Send always sends a new message to the chat.
func (r *Request) Send(ctx context.Context, text string, kb *messaging.Keyboard) error {
	return r.sender.SendText(ctx, r.ChatID(), text, kb)
}

// Sender returns the transport sender for media and other actions.
func (r *Request) Sender() messaging.Sender {
	return r.sender
}

// Answer acknowledges a callback once. It is a no-op for messages and for
// callbacks already answered.
func (r *Request) Answer(ctx context.Context, text string, alert bool) {
	cb := r.Callback()
	if cb == nil || r.answered {
		return
	}
	r.answered = true
	if err := r.sender.AnswerCallback(ctx, cb.ID, text, alert); err != nil {
		slog.Debug("Request.Answer failed", "error", err)
	}
}

// WithSender binds the request to a sender outside of Dispatch, for tests and
// handlers invoked directly.
func (r *Request) WithSender(s messaging.Sender) *Request {
	r.sender = s
	return r
}
