// Package messaging defines the chat transport abstraction used by PetDiary
// and its Telegram implementation.
package messaging

import "context"

// Sender carries the outbound transport actions.
type Sender interface {
	// SendText sends an HTML-formatted message, optionally with a keyboard.
	SendText(ctx context.Context, chatID int64, text string, kb *Keyboard) error

	// SendPhoto resends a stored photo by its opaque file handle.
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error

	// SendDocument resends a stored document by its opaque file handle.
	SendDocument(ctx context.Context, chatID int64, fileID, caption string) error

	// EditText replaces the text and inline keyboard of a previously sent message.
	EditText(ctx context.Context, chatID int64, messageID int, text string, kb *Keyboard) error

	// AnswerCallback acknowledges a button press, optionally as a modal alert.
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Service defines a pluggable chat transport.
type Service interface {
	Sender

	// Start begins receiving events in the background.
	Start(ctx context.Context) error

	// Stop stops receiving events; the Events channel is closed afterwards.
	Stop() error

	// Events returns the channel of incoming user events, in arrival order.
	Events() <-chan Event
}
