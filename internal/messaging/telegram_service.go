package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for TelegramService configuration
const (
	// DefaultChannelBufferSize defines the buffer size of the events channel
	DefaultChannelBufferSize = 100
	// DefaultPollTimeout is the long polling timeout in seconds
	DefaultPollTimeout = 60
)

// botAPI is the subset of *tgbotapi.BotAPI used by TelegramService.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramService implements Service over the Telegram Bot API using long polling.
type TelegramService struct {
	bot      botAPI
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

// Compile-time check that TelegramService implements Service.
var _ Service = (*TelegramService)(nil)

// NewTelegramService authorizes with the bot token and returns a service ready to Start.
func NewTelegramService(token string, debug bool) (*TelegramService, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token not set")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("TelegramService authorization failed", "error", err)
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	bot.Debug = debug
	slog.Info("TelegramService authorized", "username", bot.Self.UserName)
	return newTelegramService(bot), nil
}

func newTelegramService(bot botAPI) *TelegramService {
	return &TelegramService{
		bot:    bot,
		events: make(chan Event, DefaultChannelBufferSize),
		done:   make(chan struct{}),
	}
}

// Start begins long polling. Updates are converted and forwarded to Events
// until ctx is cancelled or Stop is called.
func (s *TelegramService) Start(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = DefaultPollTimeout
	updates := s.bot.GetUpdatesChan(cfg)
	slog.Debug("TelegramService polling started")

	go func() {
		defer close(s.events)
		for {
			select {
			case <-ctx.Done():
				slog.Debug("TelegramService stopping due to context cancellation")
				return
			case <-s.done:
				return
			case u, ok := <-updates:
				if !ok {
					slog.Debug("TelegramService updates channel closed")
					return
				}
				ev := ConvertUpdate(u)
				if ev == nil {
					slog.Debug("TelegramService ignoring update", "updateID", u.UpdateID)
					continue
				}
				select {
				case s.events <- ev:
				case <-ctx.Done():
					return
				case <-s.done:
					return
				}
			}
		}
	}()
	return nil
}

// Stop stops polling. It is safe to call more than once.
func (s *TelegramService) Stop() error {
	s.stopOnce.Do(func() {
		slog.Info("TelegramService Stop invoked")
		s.bot.StopReceivingUpdates()
		close(s.done)
	})
	return nil
}

// Events returns the channel of incoming events.
func (s *TelegramService) Events() <-chan Event {
	return s.events
}

func (s *TelegramService) SendText(_ context.Context, chatID int64, text string, kb *Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = replyMarkup(kb)
	}
	if _, err := s.bot.Send(msg); err != nil {
		slog.Error("TelegramService SendText failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return nil
}

func (s *TelegramService) SendPhoto(_ context.Context, chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	if _, err := s.bot.Send(photo); err != nil {
		slog.Error("TelegramService SendPhoto failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to send photo to %d: %w", chatID, err)
	}
	return nil
}

func (s *TelegramService) SendDocument(_ context.Context, chatID int64, fileID, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID))
	doc.Caption = caption
	if _, err := s.bot.Send(doc); err != nil {
		slog.Error("TelegramService SendDocument failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to send document to %d: %w", chatID, err)
	}
	return nil
}

// EditText edits a message. Telegram rejects edits that change nothing; those are treated as success.
func (s *TelegramService) EditText(_ context.Context, chatID int64, messageID int, text string, kb *Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil && kb.Inline {
		markup := inlineMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := s.bot.Send(edit); err != nil {
		if isNotModified(err) {
			return nil
		}
		slog.Error("TelegramService EditText failed", "error", err, "chatID", chatID, "messageID", messageID)
		return fmt.Errorf("failed to edit message %d: %w", messageID, err)
	}
	return nil
}

func (s *TelegramService) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	if _, err := s.bot.Request(cb); err != nil {
		slog.Warn("TelegramService AnswerCallback failed", "error", err)
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

func inlineMarkup(kb *Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func replyMarkup(kb *Keyboard) any {
	if kb.Inline {
		return inlineMarkup(kb)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.InputFieldPlaceholder = kb.Placeholder
	return markup
}

// ConvertUpdate maps a Telegram update to an Event. Updates without a sender,
// and kinds PetDiary does not handle, yield nil.
func ConvertUpdate(u tgbotapi.Update) Event {
	if cq := u.CallbackQuery; cq != nil {
		if cq.From == nil {
			return nil
		}
		cb := &Callback{
			Origin: Origin{UserID: cq.From.ID, ChatID: cq.From.ID},
			ID:     cq.ID,
			Data:   cq.Data,
		}
		if cq.Message != nil {
			cb.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				cb.ChatID = cq.Message.Chat.ID
			}
		}
		return cb
	}

	m := u.Message
	if m == nil || m.From == nil {
		return nil
	}
	msg := &Message{
		Origin:    Origin{UserID: m.From.ID, ChatID: m.From.ID},
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
	}
	if n := len(m.Photo); n > 0 {
		// sizes are ascending; the last one is the original
		largest := m.Photo[n-1]
		msg.Photo = &File{FileID: largest.FileID, UniqueID: largest.FileUniqueID}
	}
	if d := m.Document; d != nil {
		msg.Document = &File{FileID: d.FileID, UniqueID: d.FileUniqueID, Name: d.FileName}
	}
	if msg.Text == "" && msg.HasMedia() {
		msg.Text = m.Caption
	}
	return msg
}
