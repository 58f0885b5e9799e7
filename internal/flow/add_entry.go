package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
	"github.com/BTreeMap/PetDiary/internal/store"
)

// StartAddEntry opens the add entry wizard for the active pet. Without an
// active pet the user is sent to the pet list instead.
func (e *Engine) StartAddEntry(ctx context.Context, req *router.Request) error {
	pet, err := e.activePet(ctx, req)
	if err != nil {
		return err
	}
	if pet == nil {
		return e.choosePetFirst(ctx, req)
	}
	st := State{Step: models.StateAddEntryType, Data: AddEntryData{PetID: pet.ID}}
	if err := e.states.SetState(ctx, req.UserID(), st); err != nil {
		return err
	}
	return req.Send(ctx, menu.PromptEntryType, menu.EntryTypesKeyboard())
}

// activePet loads the user's active pet, or nil when none is usable.
func (e *Engine) activePet(ctx context.Context, req *router.Request) (*models.Pet, error) {
	if !req.User.HasActivePet() {
		return nil, nil
	}
	pet, err := e.store.GetPet(ctx, req.User.ID, *req.User.ActivePetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active pet: %w", err)
	}
	return pet, nil
}

func (e *Engine) choosePetFirst(ctx context.Context, req *router.Request) error {
	pets, err := e.store.ListPets(ctx, req.User.ID)
	if err != nil {
		return fmt.Errorf("failed to list pets: %w", err)
	}
	text := menu.TextNeedActivePet
	if len(pets) == 0 {
		text += "\n\n" + menu.TextNoPets
	}
	return req.Send(ctx, text, menu.PetsListKeyboard(pets, nil))
}

// EntryType handles an entry:type:<type> button.
func (e *Engine) EntryType(ctx context.Context, req *router.Request) error {
	raw, err := choice(req, 3)
	if err != nil {
		return err
	}
	typ := models.EntryType(raw)
	if !models.IsValidEntryType(typ) {
		return fmt.Errorf("%w: unknown entry type %q", models.ErrInvalidPayload, raw)
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(AddEntryData)
		if !ok || d.PetID == 0 {
			return errContextLost
		}
		d.Type = typ
		st.Step, st.Data = models.StateAddEntryDateChoice, d
		return nil
	})
}

// EntryDate handles an entry:date:<today|yesterday|custom> button.
func (e *Engine) EntryDate(ctx context.Context, req *router.Request) error {
	raw, err := choice(req, 3)
	if err != nil {
		return err
	}
	var date *time.Time
	next := models.StateAddEntryText
	switch raw {
	case "today":
		d := e.today()
		date = &d
	case "yesterday":
		d := e.today().AddDate(0, 0, -1)
		date = &d
	case "custom":
		next = models.StateAddEntryCustomDate
	default:
		return fmt.Errorf("%w: unknown date choice %q", models.ErrInvalidPayload, raw)
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(AddEntryData)
		if !ok || d.Type == "" {
			return errContextLost
		}
		d.Date = date
		st.Step, st.Data = next, d
		return nil
	})
}

// EntryCustomDate handles a typed YYYY-MM-DD date.
func (e *Engine) EntryCustomDate(ctx context.Context, req *router.Request) error {
	date, err := models.ValidateDate(req.Value(), e.now())
	if err != nil {
		return e.invalid(ctx, req, err)
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(AddEntryData)
		if !ok || d.Type == "" {
			return errContextLost
		}
		d.Date = &date
		st.Step, st.Data = models.StateAddEntryText, d
		return nil
	})
}

// EntryText handles the description and stores the entry.
func (e *Engine) EntryText(ctx context.Context, req *router.Request) error {
	text, err := models.ValidateEntryText(req.Value())
	if err != nil {
		return e.invalid(ctx, req, err)
	}
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	d, ok := st.Data.(AddEntryData)
	if !ok || d.PetID == 0 || d.Type == "" || d.Date == nil {
		return e.lost(ctx, req, errContextLost)
	}
	pet, err := e.store.GetPet(ctx, req.User.ID, d.PetID)
	if errors.Is(err, store.ErrNotFound) {
		return e.lost(ctx, req, err)
	}
	if err != nil {
		return fmt.Errorf("failed to load pet: %w", err)
	}

	entry := &models.Entry{PetID: pet.ID, Type: d.Type, Date: *d.Date, Text: text, CreatedAt: e.now().UTC()}
	if err := e.store.CreateEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	if err := e.finish(ctx, req); err != nil {
		return err
	}
	slog.Info("Engine entry added", "userID", req.User.ID, "petID", pet.ID, "entryID", entry.ID, "type", entry.Type)

	return req.Send(ctx, menu.EntrySaved(*entry, *pet), menu.EntryActionsKeyboard(*entry))
}
