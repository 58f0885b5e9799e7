package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
)

// MedsRepeatTitle is the title of the medication repeat reminder.
const MedsRepeatTitle = "Medication repeat dose"

// StartVaccineReminder handles vrem:start:<entry id> for a vaccination entry.
func (e *Engine) StartVaccineReminder(ctx context.Context, req *router.Request) error {
	entryID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	entry, err := e.store.GetEntry(ctx, req.User.ID, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	if entry.Type != models.EntryTypeVaccine {
		return fmt.Errorf("%w: entry %d is not a vaccination", models.ErrInvalidPayload, entryID)
	}
	pet, err := e.store.GetPet(ctx, req.User.ID, entry.PetID)
	if err != nil {
		return fmt.Errorf("failed to load pet %d: %w", entry.PetID, err)
	}

	st := State{
		Step: models.StateVaccineChooseVaccine,
		Data: VaccineReminderData{EntryID: entry.ID, PetID: pet.ID, Species: pet.Species},
	}
	if err := e.states.SetState(ctx, req.UserID(), st); err != nil {
		return err
	}
	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.PromptVaccine, menu.VaccinesKeyboard(pet.Species))
}

// VaccineChoice handles vrem:vaccine:<slug>. Slugs not offered for the pet's
// species are rejected.
func (e *Engine) VaccineChoice(ctx context.Context, req *router.Request) error {
	slug, err := choice(req, 3)
	if err != nil {
		return err
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(VaccineReminderData)
		if !ok || d.EntryID == 0 {
			return errContextLost
		}
		v, found := models.FindVaccine(d.Species, slug)
		if !found {
			return fmt.Errorf("%w: unknown vaccine %q", models.ErrInvalidPayload, slug)
		}
		d.Title = v.Title
		st.Step, st.Data = models.StateVaccineChooseDelay, d
		return nil
	})
}

// VaccineDelay handles vrem:delay:<days|custom>.
func (e *Engine) VaccineDelay(ctx context.Context, req *router.Request) error {
	raw, err := choice(req, 3)
	if err != nil {
		return err
	}
	if raw == "custom" {
		return e.advance(ctx, req, func(st *State) error {
			if _, ok := st.Data.(VaccineReminderData); !ok {
				return errContextLost
			}
			st.Step = models.StateVaccineCustomDelay
			return nil
		})
	}
	days, err := strconv.Atoi(raw)
	if err != nil || !offeredDelay(days) {
		return fmt.Errorf("%w: unknown delay %q", models.ErrInvalidPayload, raw)
	}
	return e.createVaccineReminder(ctx, req, days)
}

// VaccineCustomDelay handles a typed number of days.
func (e *Engine) VaccineCustomDelay(ctx context.Context, req *router.Request) error {
	days, err := models.ValidateDelayDays(req.Value())
	if err != nil {
		return e.invalid(ctx, req, err)
	}
	return e.createVaccineReminder(ctx, req, days)
}

func offeredDelay(days int) bool {
	for _, d := range models.VaccineDelays {
		if d == days {
			return true
		}
	}
	return false
}

func (e *Engine) createVaccineReminder(ctx context.Context, req *router.Request, days int) error {
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	d, ok := st.Data.(VaccineReminderData)
	if !ok || d.EntryID == 0 || d.Title == "" {
		return e.lost(ctx, req, errContextLost)
	}
	entryID := d.EntryID
	r := &models.Reminder{
		UserID:  req.User.ID,
		PetID:   d.PetID,
		EntryID: &entryID,
		Title:   d.Title,
		DueAt:   e.now().UTC().Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := e.store.CreateReminder(ctx, r); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	if err := e.finish(ctx, req); err != nil {
		return err
	}
	slog.Info("Engine vaccine reminder scheduled", "userID", req.User.ID, "reminderID", r.ID, "dueAt", r.DueAt)

	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.ReminderSaved(*r), menu.MainMenu())
}

// MedsRepeat handles mrem:create:<entry id>: one reminder MedsRepeatDays after
// the entry date. It needs no wizard state.
func (e *Engine) MedsRepeat(ctx context.Context, req *router.Request) error {
	entryID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	entry, err := e.store.GetEntry(ctx, req.User.ID, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	if entry.Type != models.EntryTypeMeds {
		req.Answer(ctx, menu.TextNotMeds, true)
		return nil
	}
	r := &models.Reminder{
		UserID:  req.User.ID,
		PetID:   entry.PetID,
		EntryID: &entry.ID,
		Title:   MedsRepeatTitle,
		DueAt:   entry.Date.AddDate(0, 0, models.MedsRepeatDays),
	}
	if err := e.store.CreateReminder(ctx, r); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	slog.Info("Engine meds reminder scheduled", "userID", req.User.ID, "reminderID", r.ID, "dueAt", r.DueAt)

	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.ReminderSaved(*r), nil)
}
