// Package bot wires the chat transport, the router and the wizard engine
// into the PetDiary event loop.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/PetDiary/internal/flow"
	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/router"
	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/google/uuid"
)

// Bot processes chat events one at a time.
type Bot struct {
	sender messaging.Sender
	store  store.Store
	states flow.StateManager
	engine *flow.Engine
	router *router.Router
	now    func() time.Time
}

// Option configures a Bot.
type Option func(*Bot)

// WithClock overrides the time source of the bot and its wizards.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		b.now = now
	}
}

// New creates a bot replying through sender.
func New(sender messaging.Sender, st store.Store, states flow.StateManager, opts ...Option) *Bot {
	b := &Bot{sender: sender, store: st, states: states, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	b.engine = flow.NewEngine(st, states, flow.WithClock(b.now))
	b.router = router.New(sender, states)
	b.routes()
	return b
}

// Router returns the dispatch table.
func (b *Bot) Router() *router.Router {
	return b.router
}

// Run handles events until ctx is cancelled or the channel is closed.
func (b *Bot) Run(ctx context.Context, events <-chan messaging.Event) error {
	slog.Info("Bot event loop started")
	defer slog.Info("Bot event loop stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.Handle(ctx, ev); err != nil {
				slog.Error("Bot.Run event failed", "error", err)
			}
		}
	}
}

// Handle registers the sender on first contact and dispatches the event.
func (b *Bot) Handle(ctx context.Context, ev messaging.Event) error {
	src := ev.Source()
	log := slog.With("eventID", uuid.NewString(), "userID", src.UserID)
	start := time.Now()

	user, err := b.store.EnsureUser(ctx, src.UserID)
	if err != nil {
		b.fail(ctx, ev)
		return fmt.Errorf("failed to ensure user %d: %w", src.UserID, err)
	}

	log.Debug("Bot event received", "event", fmt.Sprintf("%T", ev))
	if err := b.router.Dispatch(ctx, router.NewRequest(ev, user)); err != nil {
		b.fail(ctx, ev)
		return err
	}
	log.Debug("Bot event handled", "elapsed", time.Since(start))
	return nil
}

func (b *Bot) fail(ctx context.Context, ev messaging.Event) {
	var err error
	switch e := ev.(type) {
	case *messaging.Callback:
		err = b.sender.AnswerCallback(ctx, e.ID, menu.TextFailure, true)
	default:
		err = b.sender.SendText(ctx, ev.Source().ChatID, menu.TextFailure, nil)
	}
	if err != nil {
		slog.Error("Bot failed to report failure", "error", err)
	}
}
