package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type replySpy struct {
	Sender
	sent   []string
	edited []string
}

func (r *replySpy) SendText(_ context.Context, _ int64, text string, _ *Keyboard) error {
	r.sent = append(r.sent, text)
	return nil
}

func (r *replySpy) EditText(_ context.Context, _ int64, _ int, text string, _ *Keyboard) error {
	r.edited = append(r.edited, text)
	return nil
}

func TestReplyDispatchesByEventKind(t *testing.T) {
	ctx := context.Background()
	spy := &replySpy{}

	var ev Event = &Message{Origin: Origin{UserID: 1, ChatID: 1}}
	assert.NoError(t, ev.Reply(ctx, spy, "new", nil))

	ev = &Callback{Origin: Origin{UserID: 1, ChatID: 1}, MessageID: 5}
	assert.NoError(t, ev.Reply(ctx, spy, "edited", InlineKeyboard(Row(Data("a", "b")))))
	assert.NoError(t, ev.Reply(ctx, spy, "menu", ReplyKeyboard("", Row(Text("Pets")))))

	assert.Equal(t, []string{"new", "menu"}, spy.sent)
	assert.Equal(t, []string{"edited"}, spy.edited)
}

func TestMessageCommand(t *testing.T) {
	tests := map[string]string{
		"/start":         "start",
		"/cancel@PetBot": "cancel",
		"/help me":       "help",
		"hello":          "",
		"/":              "",
		"":               "",
	}
	for text, want := range tests {
		assert.Equal(t, want, (&Message{Text: text}).Command(), "text %q", text)
	}
}

func TestKeyboardFindData(t *testing.T) {
	kb := InlineKeyboard(Row(Data("A", "a"), Data("B", "b")), Row(Data("C", "c")))
	b, ok := kb.FindData("c")
	assert.True(t, ok)
	assert.Equal(t, "C", b.Text)
	_, ok = kb.FindData("z")
	assert.False(t, ok)
	var nilKB *Keyboard
	assert.Empty(t, nilKB.Buttons())
}
