// Package router dispatches incoming chat events to handlers using an
// ordered rule table.
//
// Rules are evaluated top-down in registration order and the first rule whose
// kind, states and predicate all match handles the event. Register
// state-qualified rules before state-agnostic ones and specific payload
// prefixes before broader ones.
package router

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/store"
)

// Kind selects which event variant a rule applies to.
type Kind int

const (
	KindMessage Kind = iota + 1
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Handler processes a matched event.
type Handler func(ctx context.Context, req *Request) error

// Rule is one row of the dispatch table. A rule with States only matches
// while the user's current step is one of them.
type Rule struct {
	Name    string
	Kind    Kind
	States  []models.StateType
	Match   Matcher
	Handler Handler
}

// StepSource reports the current wizard step of a user.
type StepSource interface {
	CurrentStep(ctx context.Context, userID int64) (models.StateType, error)
}

// Router is an ordered table of rules.
type Router struct {
	rules  []Rule
	steps  StepSource
	sender messaging.Sender
}

// New creates an empty router.
func New(sender messaging.Sender, steps StepSource) *Router {
	return &Router{sender: sender, steps: steps}
}

// Add appends a rule; it has lower priority than every rule added before it.
func (r *Router) Add(rule Rule) {
	if rule.Match == nil {
		rule.Match = Any()
	}
	r.rules = append(r.rules, rule)
}

// OnMessage registers a message rule.
func (r *Router) OnMessage(name string, match Matcher, h Handler, states ...models.StateType) {
	r.Add(Rule{Name: name, Kind: KindMessage, States: states, Match: match, Handler: h})
}

// OnCallback registers a button press rule.
func (r *Router) OnCallback(name string, match Matcher, h Handler, states ...models.StateType) {
	r.Add(Rule{Name: name, Kind: KindCallback, States: states, Match: match, Handler: h})
}

// Rules returns the registered rules in priority order.
func (r *Router) Rules() []Rule {
	return slices.Clone(r.rules)
}

func kindOf(ev messaging.Event) Kind {
	switch ev.(type) {
	case *messaging.Message:
		return KindMessage
	case *messaging.Callback:
		return KindCallback
	default:
		return 0
	}
}

// Match returns the first rule matching the request, if any.
func (r *Router) Match(req *Request) (Rule, bool) {
	kind := kindOf(req.Event)
	for _, rule := range r.rules {
		if rule.Kind != kind {
			continue
		}
		if len(rule.States) > 0 && !slices.Contains(rule.States, req.Step) {
			continue
		}
		if rule.Match(req) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Dispatch routes one event. Handler errors are reported to the user and
// never returned, so a bad event cannot stop the event loop; only failures
// to load the user's step are returned.
func (r *Router) Dispatch(ctx context.Context, req *Request) error {
	req.sender = r.sender
	step, err := r.steps.CurrentStep(ctx, req.Event.Source().UserID)
	if err != nil {
		slog.Error("Router.Dispatch step lookup failed", "error", err, "userID", req.Event.Source().UserID)
		return err
	}
	req.Step = step

	rule, ok := r.Match(req)
	if !ok {
		slog.Debug("Router.Dispatch no rule matched", "kind", kindOf(req.Event), "step", step)
		if _, isCallback := req.Event.(*messaging.Callback); isCallback {
			req.Answer(ctx, "", false)
		}
		return nil
	}

	slog.Debug("Router.Dispatch matched", "rule", rule.Name, "step", step)
	if err := rule.Handler(ctx, req); err != nil {
		r.report(ctx, req, rule, err)
	}
	if _, isCallback := req.Event.(*messaging.Callback); isCallback && !req.answered {
		req.Answer(ctx, "", false)
	}
	return nil
}

func (r *Router) report(ctx context.Context, req *Request, rule Rule, err error) {
	var text string
	switch {
	case errors.Is(err, models.ErrInvalidPayload):
		slog.Warn("Router invalid payload", "rule", rule.Name, "error", err)
		text = menu.TextInvalidData
	case errors.Is(err, store.ErrNotFound):
		slog.Warn("Router entity not found", "rule", rule.Name, "userID", req.Event.Source().UserID)
		text = menu.TextNotFound
	default:
		slog.Error("Router handler failed", "rule", rule.Name, "error", err, "userID", req.Event.Source().UserID)
		text = menu.TextFailure
	}

	switch ev := req.Event.(type) {
	case *messaging.Callback:
		req.Answer(ctx, text, true)
	case *messaging.Message:
		if sendErr := r.sender.SendText(ctx, ev.ChatID, text, nil); sendErr != nil {
			slog.Error("Router failed to send error message", "error", sendErr, "chatID", ev.ChatID)
		}
	}
}
