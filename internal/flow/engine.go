package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
	"github.com/BTreeMap/PetDiary/internal/store"
)

// errContextLost marks a wizard step reached without the data earlier steps collect.
var errContextLost = errors.New("wizard context lost")

// Engine drives the wizards. Its handlers are registered on a router.
type Engine struct {
	store  store.Store
	states StateManager
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a wizard engine over the entity store and the state store.
func NewEngine(st store.Store, states StateManager, opts ...EngineOption) *Engine {
	e := &Engine{store: st, states: states, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// States returns the conversation state store.
func (e *Engine) States() StateManager {
	return e.states
}

// Cancel clears any active wizard. With no wizard active it only acknowledges.
func (e *Engine) Cancel(ctx context.Context, req *router.Request) error {
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	if st.IsIdle() {
		return req.Send(ctx, menu.TextNothingToCancel, menu.MainMenu())
	}
	if err := e.states.ResetState(ctx, req.UserID()); err != nil {
		return err
	}
	slog.Debug("Engine.Cancel wizard cleared", "userID", req.UserID(), "step", st.Step)
	return req.Send(ctx, menu.TextCancelled, menu.MainMenu())
}

// Reprompt repeats the prompt of the current step without changing state.
func (e *Engine) Reprompt(ctx context.Context, req *router.Request) error {
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	text, kb := e.prompt(st)
	if text == "" {
		return req.Send(ctx, menu.TextUnknown, menu.MainMenu())
	}
	return req.Send(ctx, text, kb)
}

// prompt returns the question asked at a step.
func (e *Engine) prompt(st State) (string, *messaging.Keyboard) {
	switch st.Step {
	case models.StateAddPetName:
		return menu.PromptPetName, nil
	case models.StateAddPetSpecies:
		return menu.PromptSpecies, menu.SpeciesKeyboard()
	case models.StateAddPetBreed:
		return menu.PromptBreed, menu.BreedKeyboard()
	case models.StateAddEntryType:
		return menu.PromptEntryType, menu.EntryTypesKeyboard()
	case models.StateAddEntryDateChoice:
		return menu.PromptEntryDate, menu.EntryDateKeyboard()
	case models.StateAddEntryCustomDate:
		return menu.PromptCustomDate, nil
	case models.StateAddEntryText:
		return menu.PromptEntryText, nil
	case models.StateVaccineChooseVaccine:
		species := models.SpeciesOther
		if d, ok := st.Data.(VaccineReminderData); ok {
			species = d.Species
		}
		return menu.PromptVaccine, menu.VaccinesKeyboard(species)
	case models.StateVaccineChooseDelay:
		return menu.PromptDelay, menu.DelaysKeyboard()
	case models.StateVaccineCustomDelay:
		return menu.PromptCustomDays, nil
	case models.StateAttachAdding:
		return menu.TextAttachNoMedia, menu.AttachKeyboard()
	default:
		return "", nil
	}
}

// advance stores the next step after fn updated the wizard data. fn returns
// errContextLost when the stored data is not what the step expects.
func (e *Engine) advance(ctx context.Context, req *router.Request, fn func(st *State) error) error {
	err := e.states.UpdateState(ctx, req.UserID(), fn)
	if errors.Is(err, errContextLost) || errors.Is(err, ErrStateMismatch) {
		return e.lost(ctx, req, err)
	}
	if err != nil {
		return err
	}
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	text, kb := e.prompt(st)
	return req.Reply(ctx, text, kb)
}

// lost abandons the wizard and asks the user to start over.
func (e *Engine) lost(ctx context.Context, req *router.Request, cause error) error {
	slog.Warn("Engine wizard context lost", "userID", req.UserID(), "step", req.Step, "cause", cause)
	if err := e.states.ResetState(ctx, req.UserID()); err != nil {
		return err
	}
	return req.Send(ctx, menu.TextWizardLost, menu.MainMenu())
}

// invalid answers malformed input with its corrective message, leaving state unchanged.
func (e *Engine) invalid(ctx context.Context, req *router.Request, err error) error {
	msg, ok := models.UserMessage(err)
	if !ok {
		return err
	}
	req.Answer(ctx, msg, true)
	if req.Message() != nil {
		return req.Send(ctx, msg, nil)
	}
	return nil
}

// finish resets the wizard after its terminal step.
func (e *Engine) finish(ctx context.Context, req *router.Request) error {
	if err := e.states.ResetState(ctx, req.UserID()); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}
	return nil
}

// choice returns the last token of a callback payload with exactly n tokens.
func choice(req *router.Request, n int) (string, error) {
	return req.Payload().Arg(n, n-1)
}

func (e *Engine) today() time.Time {
	return models.DateOnly(e.now())
}
