package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
	"github.com/BTreeMap/PetDiary/internal/store"
)

// StartAttach handles entry:attach:<id> and waits for uploads for that entry.
func (e *Engine) StartAttach(ctx context.Context, req *router.Request) error {
	entryID, err := req.Payload().ID(3, 2)
	if err != nil {
		return err
	}
	if _, err := e.store.GetEntry(ctx, req.User.ID, entryID); err != nil {
		return fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}
	st := State{Step: models.StateAttachAdding, Data: AttachFilesData{EntryID: entryID}}
	if err := e.states.SetState(ctx, req.UserID(), st); err != nil {
		return err
	}
	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.PromptAttach, menu.AttachKeyboard())
}

// AttachMedia stores an uploaded photo or document.
func (e *Engine) AttachMedia(ctx context.Context, req *router.Request) error {
	msg := req.Message()
	if msg == nil || !msg.HasMedia() {
		return e.AttachNoMedia(ctx, req)
	}
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	d, ok := st.Data.(AttachFilesData)
	if !ok || d.EntryID == 0 {
		return e.lost(ctx, req, errContextLost)
	}

	att := &models.Attachment{EntryID: d.EntryID, Kind: models.AttachmentPhoto}
	file := msg.Photo
	if file == nil {
		att.Kind = models.AttachmentDocument
		file = msg.Document
	}
	att.FileID = file.FileID
	if file.UniqueID != "" {
		unique := file.UniqueID
		att.FileUniqueID = &unique
	}

	err = e.store.CreateAttachment(ctx, att)
	if errors.Is(err, store.ErrAlreadyExists) {
		return req.Send(ctx, menu.TextAttachDuplicate, menu.AttachKeyboard())
	}
	if err != nil {
		return fmt.Errorf("failed to store attachment: %w", err)
	}

	d.Added++
	if err := e.states.SetState(ctx, req.UserID(), State{Step: models.StateAttachAdding, Data: d}); err != nil {
		return err
	}
	slog.Debug("Engine attachment stored", "entryID", d.EntryID, "attachmentID", att.ID, "kind", att.Kind)
	return req.Send(ctx, fmt.Sprintf("📎 File %d saved.", d.Added), menu.AttachKeyboard())
}

// AttachNoMedia answers anything other than media while uploads are awaited.
func (e *Engine) AttachNoMedia(ctx context.Context, req *router.Request) error {
	return req.Send(ctx, menu.TextAttachNoMedia, menu.AttachKeyboard())
}

// AttachDone ends the attach files wizard.
func (e *Engine) AttachDone(ctx context.Context, req *router.Request) error {
	if err := e.finish(ctx, req); err != nil {
		return err
	}
	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.TextAttachDone, menu.MainMenu())
}
