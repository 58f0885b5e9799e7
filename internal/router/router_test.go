package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/BTreeMap/PetDiary/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSteps map[int64]models.StateType

func (f fixedSteps) CurrentStep(_ context.Context, userID int64) (models.StateType, error) {
	return f[userID], nil
}

func record(hits *[]string, name string) Handler {
	return func(context.Context, *Request) error {
		*hits = append(*hits, name)
		return nil
	}
}

func TestStateQualifiedRuleWins(t *testing.T) {
	var hits []string
	sender := &testutil.RecordingSender{}
	steps := fixedSteps{1: models.StateAddPetName}
	r := New(sender, steps)
	r.OnMessage("pet name", Any(), record(&hits, "pet name"), models.StateAddPetName)
	r.OnMessage("menu", Exact(menu.ButtonPets), record(&hits, "menu"))
	r.OnMessage("fallback", Any(), record(&hits, "fallback"))

	ctx := context.Background()
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewMessage(1, menu.ButtonPets), nil)))
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewMessage(2, menu.ButtonPets), nil)))
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewMessage(2, "hello"), nil)))

	assert.Equal(t, []string{"pet name", "menu", "fallback"}, hits)
}

func TestRegistrationOrderIsPriority(t *testing.T) {
	var hits []string
	r := New(&testutil.RecordingSender{}, fixedSteps{})
	r.OnCallback("set active", Prefix("pet:set_active:"), record(&hits, "set active"))
	r.OnCallback("pet card", Prefix("pet:"), record(&hits, "pet card"))

	ctx := context.Background()
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewCallback(1, "pet:set_active:3"), nil)))
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewCallback(1, "pet:3"), nil)))
	assert.Equal(t, []string{"set active", "pet card"}, hits)
}

func TestCommandAndMediaMatchers(t *testing.T) {
	var hits []string
	r := New(&testutil.RecordingSender{}, fixedSteps{})
	r.OnMessage("cancel", Command("cancel"), record(&hits, "cancel"))
	r.OnMessage("media", HasMedia(), record(&hits, "media"))
	r.OnMessage("text", Not(HasMedia()), record(&hits, "text"))

	ctx := context.Background()
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewMessage(1, "/cancel"), nil)))
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewPhoto(1, "f", "u"), nil)))
	require.NoError(t, r.Dispatch(ctx, NewRequest(testutil.NewMessage(1, "cancel"), nil)))
	assert.Equal(t, []string{"cancel", "media", "text"}, hits)
}

func TestInvalidPayloadAnswersWithAlert(t *testing.T) {
	sender := &testutil.RecordingSender{}
	r := New(sender, fixedSteps{})
	r.OnCallback("pet", Prefix("pet:"), func(_ context.Context, req *Request) error {
		_, err := req.Payload().ID(3, 2)
		return err
	})

	require.NoError(t, r.Dispatch(context.Background(), NewRequest(testutil.NewCallback(1, "pet:set_active:abc"), nil)))
	answers := sender.Only(testutil.ActionAnswer)
	require.Len(t, answers, 1)
	assert.Equal(t, menu.TextInvalidData, answers[0].Text)
	assert.True(t, answers[0].Alert)
}

func TestNotFoundIsDenied(t *testing.T) {
	sender := &testutil.RecordingSender{}
	r := New(sender, fixedSteps{})
	r.OnCallback("entry", Prefix("entry:"), func(context.Context, *Request) error {
		return fmt.Errorf("load entry: %w", store.ErrNotFound)
	})

	require.NoError(t, r.Dispatch(context.Background(), NewRequest(testutil.NewCallback(1, "entry:view:9"), nil)))
	answers := sender.Only(testutil.ActionAnswer)
	require.Len(t, answers, 1)
	assert.Equal(t, menu.TextNotFound, answers[0].Text)
}

func TestUnexpectedErrorReportedOnMessage(t *testing.T) {
	sender := &testutil.RecordingSender{}
	r := New(sender, fixedSteps{})
	r.OnMessage("boom", Any(), func(context.Context, *Request) error { return errors.New("db down") })

	require.NoError(t, r.Dispatch(context.Background(), NewRequest(testutil.NewMessage(1, "x"), nil)))
	assert.Equal(t, menu.TextFailure, sender.Last(t).Text)
}

func TestUnmatchedCallbackAcknowledgedSilently(t *testing.T) {
	sender := &testutil.RecordingSender{}
	r := New(sender, fixedSteps{})

	require.NoError(t, r.Dispatch(context.Background(), NewRequest(testutil.NewCallback(1, "unknown:thing"), nil)))
	answers := sender.Only(testutil.ActionAnswer)
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].Text)
	assert.False(t, answers[0].Alert)
}

func TestCallbackAnsweredOnce(t *testing.T) {
	sender := &testutil.RecordingSender{}
	r := New(sender, fixedSteps{})
	r.OnCallback("ack", Any(), func(ctx context.Context, req *Request) error {
		req.Answer(ctx, "done", false)
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), NewRequest(testutil.NewCallback(1, "x"), nil)))
	answers := sender.Only(testutil.ActionAnswer)
	require.Len(t, answers, 1)
	assert.Equal(t, "done", answers[0].Text)
}
