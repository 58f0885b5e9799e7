// Package testutil provides common test utilities and fakes for PetDiary tests.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/store"
)

// ErrSendFailed is returned by a RecordingSender configured to fail.
var ErrSendFailed = errors.New("send failed")

// Action identifies the recorded transport action.
type Action string

const (
	ActionText     Action = "text"
	ActionPhoto    Action = "photo"
	ActionDocument Action = "document"
	ActionEdit     Action = "edit"
	ActionAnswer   Action = "answer"
)

// Sent is one recorded outbound action.
type Sent struct {
	Action    Action
	ChatID    int64
	MessageID int
	Text      string
	FileID    string
	Keyboard  *messaging.Keyboard
	Alert     bool
}

// RecordingSender is a messaging.Sender that records every action.
type RecordingSender struct {
	mu   sync.Mutex
	sent []Sent
	// Fail makes every action except AnswerCallback return ErrSendFailed after recording it.
	Fail bool
}

var _ messaging.Sender = (*RecordingSender)(nil)

func (r *RecordingSender) record(s Sent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, s)
	if r.Fail && s.Action != ActionAnswer {
		return ErrSendFailed
	}
	return nil
}

func (r *RecordingSender) SendText(_ context.Context, chatID int64, text string, kb *messaging.Keyboard) error {
	return r.record(Sent{Action: ActionText, ChatID: chatID, Text: text, Keyboard: kb})
}

func (r *RecordingSender) SendPhoto(_ context.Context, chatID int64, fileID, caption string) error {
	return r.record(Sent{Action: ActionPhoto, ChatID: chatID, FileID: fileID, Text: caption})
}

func (r *RecordingSender) SendDocument(_ context.Context, chatID int64, fileID, caption string) error {
	return r.record(Sent{Action: ActionDocument, ChatID: chatID, FileID: fileID, Text: caption})
}

func (r *RecordingSender) EditText(_ context.Context, chatID int64, messageID int, text string, kb *messaging.Keyboard) error {
	return r.record(Sent{Action: ActionEdit, ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb})
}

func (r *RecordingSender) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	return r.record(Sent{Action: ActionAnswer, Text: text, Alert: alert})
}

// All returns a copy of every recorded action.
func (r *RecordingSender) All() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// Only returns the recorded actions of one kind.
func (r *RecordingSender) Only(action Action) []Sent {
	var out []Sent
	for _, s := range r.All() {
		if s.Action == action {
			out = append(out, s)
		}
	}
	return out
}

// Answers filters callback answers out of recorded actions.
func Answers(sent []Sent) []Sent {
	var out []Sent
	for _, s := range sent {
		if s.Action == ActionAnswer {
			out = append(out, s)
		}
	}
	return out
}

// LastMessage returns the last recorded action that is not a callback answer,
// or the zero Sent.
func LastMessage(sent []Sent) Sent {
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].Action != ActionAnswer {
			return sent[i]
		}
	}
	return Sent{}
}

// Last returns the last action that is not a callback answer.
func (r *RecordingSender) Last(t *testing.T) Sent {
	t.Helper()
	all := r.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Action != ActionAnswer {
			return all[i]
		}
	}
	t.Fatal("no message was sent")
	return Sent{}
}

// Reset forgets recorded actions.
func (r *RecordingSender) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

// NewMessage builds a private chat text message from a user.
func NewMessage(userID int64, text string) *messaging.Message {
	return &messaging.Message{Origin: messaging.Origin{UserID: userID, ChatID: userID}, MessageID: 1, Text: text}
}

// NewPhoto builds a photo upload from a user.
func NewPhoto(userID int64, fileID, uniqueID string) *messaging.Message {
	m := NewMessage(userID, "")
	m.Photo = &messaging.File{FileID: fileID, UniqueID: uniqueID}
	return m
}

// NewDocument builds a document upload from a user.
func NewDocument(userID int64, fileID, uniqueID, name string) *messaging.Message {
	m := NewMessage(userID, "")
	m.Document = &messaging.File{FileID: fileID, UniqueID: uniqueID, Name: name}
	return m
}

// NewCallback builds a button press from a user.
func NewCallback(userID int64, data string) *messaging.Callback {
	return &messaging.Callback{Origin: messaging.Origin{UserID: userID, ChatID: userID}, ID: "cb", MessageID: 99, Data: data}
}

// SeedPet creates a user with an active pet.
func SeedPet(t *testing.T, st store.Store, telegramID int64, name string, species models.Species) (*models.User, *models.Pet) {
	t.Helper()
	ctx := context.Background()
	u, err := st.EnsureUser(ctx, telegramID)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	p := &models.Pet{UserID: u.ID, Name: name, Species: species}
	if err := st.CreatePet(ctx, p); err != nil {
		t.Fatalf("failed to create pet: %v", err)
	}
	if err := st.SetActivePet(ctx, u.ID, p.ID); err != nil {
		t.Fatalf("failed to set active pet: %v", err)
	}
	u.ActivePetID = &p.ID
	return u, p
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// MustUnmarshalJSON unmarshals JSON data into target and fails test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
}
