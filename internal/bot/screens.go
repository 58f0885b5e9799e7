package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
	"github.com/BTreeMap/PetDiary/internal/store"
)

func (b *Bot) start(ctx context.Context, req *router.Request) error {
	if err := b.states.ResetState(ctx, req.UserID()); err != nil {
		return err
	}
	return req.Send(ctx, menu.TextWelcome, menu.MainMenu())
}

func (b *Bot) help(ctx context.Context, req *router.Request) error {
	return req.Send(ctx, menu.TextHelp, menu.MainMenu())
}

func (b *Bot) settings(ctx context.Context, req *router.Request) error {
	return req.Send(ctx, menu.TextSettings, menu.MainMenu())
}

func (b *Bot) unknown(ctx context.Context, req *router.Request) error {
	return req.Send(ctx, menu.TextUnknown, menu.MainMenu())
}

func (b *Bot) mainMenu(ctx context.Context, req *router.Request) error {
	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.TextMainMenu, menu.MainMenu())
}

func (b *Bot) reminders(ctx context.Context, req *router.Request) error {
	rs, err := b.store.ListPendingReminders(ctx, req.User.ID)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	return req.Send(ctx, menu.PendingReminders(rs), nil)
}

// activePet returns the user's active pet, or nil after telling the user to
// choose one.
func (b *Bot) activePet(ctx context.Context, req *router.Request) (*models.Pet, error) {
	if req.User.HasActivePet() {
		pet, err := b.store.GetPet(ctx, req.User.ID, *req.User.ActivePetID)
		if err == nil {
			return pet, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load active pet: %w", err)
		}
	}
	pets, err := b.store.ListPets(ctx, req.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return nil, req.Reply(ctx, menu.TextNeedActivePet, menu.PetsListKeyboard(pets, nil))
}

func (b *Bot) petsList(ctx context.Context, req *router.Request) error {
	pets, err := b.store.ListPets(ctx, req.User.ID)
	if err != nil {
		return fmt.Errorf("failed to list pets: %w", err)
	}
	text := menu.TextChoosePet
	if len(pets) == 0 {
		text = menu.TextNoPets
	}
	return req.Reply(ctx, text, menu.PetsListKeyboard(pets, req.User.ActivePetID))
}

// petCard handles pet:<id>.
func (b *Bot) petCard(ctx context.Context, req *router.Request) error {
	petID, err := req.Payload().ID(2, 1)
	if err != nil {
		return err
	}
	pet, err := b.store.GetPet(ctx, req.User.ID, petID)
	if err != nil {
		return fmt.Errorf("failed to load pet %d: %w", petID, err)
	}
	active := req.User.HasActivePet() && *req.User.ActivePetID == pet.ID
	return req.Reply(ctx, menu.PetCard(*pet, active, b.now()), menu.PetCardKeyboard(*pet, active))
}

// setActivePet handles pet:set_active:<id>.
func (b *Bot) setActivePet(ctx context.Context, req *router.Request) error {
	petID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	pet, err := b.store.GetPet(ctx, req.User.ID, petID)
	if err != nil {
		return fmt.Errorf("failed to load pet %d: %w", petID, err)
	}
	if err := b.store.SetActivePet(ctx, req.User.ID, pet.ID); err != nil {
		return fmt.Errorf("failed to activate pet %d: %w", pet.ID, err)
	}
	req.User.ActivePetID = &pet.ID

	req.Answer(ctx, menu.TextPetActivated, false)
	text := menu.PetActivated(*pet) + "\n\n" + menu.PetCard(*pet, true, b.now())
	return req.Reply(ctx, text, menu.PetCardKeyboard(*pet, true))
}

func (b *Bot) history(ctx context.Context, req *router.Request) error {
	pet, err := b.activePet(ctx, req)
	if pet == nil {
		return err
	}
	entries, err := b.store.ListRecentEntries(ctx, pet.ID, models.MaxHistoryItems)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	return req.Reply(ctx, menu.History(*pet, entries), menu.HistoryKeyboard(entries))
}

// entryCard handles entry:view:<id>.
func (b *Bot) entryCard(ctx context.Context, req *router.Request) error {
	entryID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	entry, err := b.store.GetEntry(ctx, req.User.ID, entryID)
	if err != nil {
		return fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	atts, err := b.store.ListAttachments(ctx, req.User.ID, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}
	return req.Reply(ctx, menu.EntryCard(*entry, len(atts)), menu.EntryCardKeyboard(*entry, len(atts)))
}

// entryFiles handles entry:files:<id>.
func (b *Bot) entryFiles(ctx context.Context, req *router.Request) error {
	entryID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	if _, err := b.store.GetEntry(ctx, req.User.ID, entryID); err != nil {
		return fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	atts, err := b.store.ListAttachments(ctx, req.User.ID, entryID)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}
	if len(atts) == 0 {
		req.Answer(ctx, menu.TextNoFiles, false)
		return nil
	}
	return req.Reply(ctx, menu.TextFiles, menu.FilesKeyboard(entryID, atts))
}

// sendFile handles file:send:<id> by resending the stored file handle.
func (b *Bot) sendFile(ctx context.Context, req *router.Request) error {
	attID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	att, err := b.store.GetAttachment(ctx, req.User.ID, attID)
	if err != nil {
		return fmt.Errorf("failed to load attachment %d: %w", attID, err)
	}
	req.Answer(ctx, "", false)
	if att.Kind == models.AttachmentPhoto {
		return req.Sender().SendPhoto(ctx, req.ChatID(), att.FileID, "")
	}
	return req.Sender().SendDocument(ctx, req.ChatID(), att.FileID, "")
}

func (b *Bot) summaryMenu(ctx context.Context, req *router.Request) error {
	pet, err := b.activePet(ctx, req)
	if pet == nil {
		return err
	}
	return req.Send(ctx, menu.PromptSummary, menu.SummaryKeyboard())
}

// summary handles summary:days:<n>, listing entries dated from n days
// before today up to now.
func (b *Bot) summary(ctx context.Context, req *router.Request) error {
	days, err := req.Payload().Int(3, 2)
	if err != nil {
		return err
	}
	if !slices.Contains(models.SummaryPeriods, days) {
		return fmt.Errorf("%w: unsupported period %d", models.ErrInvalidPayload, days)
	}
	pet, err := b.activePet(ctx, req)
	if pet == nil {
		return err
	}
	now := b.now()
	from := models.DateOnly(now).AddDate(0, 0, -days)
	entries, err := b.store.ListEntriesBetween(ctx, pet.ID, from, now)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	return req.Reply(ctx, menu.Summary(*pet, days, entries), menu.SummaryKeyboard())
}
