// Package flow implements the conversation state store and the wizard engine.
package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
)

// ErrStateMismatch is returned when a step is stored with data of another wizard.
var ErrStateMismatch = errors.New("wizard step does not match its data")

// WizardData is the typed context of one wizard.
type WizardData interface {
	Flow() models.FlowType
}

// AddPetData accumulates the add pet wizard.
type AddPetData struct {
	Name    string
	Species models.Species
}

// AddEntryData accumulates the add entry wizard for one pet.
type AddEntryData struct {
	PetID int64
	Type  models.EntryType
	Date  *time.Time
}

// VaccineReminderData accumulates the vaccine reminder wizard for one entry.
type VaccineReminderData struct {
	EntryID int64
	PetID   int64
	Species models.Species
	Title   string
}

// AttachFilesData identifies the entry receiving uploads.
type AttachFilesData struct {
	EntryID int64
	Added   int
}

func (AddPetData) Flow() models.FlowType          { return models.FlowTypeAddPet }
func (AddEntryData) Flow() models.FlowType        { return models.FlowTypeAddEntry }
func (VaccineReminderData) Flow() models.FlowType { return models.FlowTypeVaccineReminder }
func (AttachFilesData) Flow() models.FlowType     { return models.FlowTypeAttachFiles }

// State is a user's conversation slot. The zero value is idle.
type State struct {
	Step models.StateType
	Data WizardData
}

// IsIdle reports whether no wizard is active.
func (s State) IsIdle() bool {
	return s.Step == models.StateIdle
}

// Validate checks that the data variant belongs to the step's wizard.
func (s State) Validate() error {
	if s.IsIdle() {
		if s.Data != nil {
			return fmt.Errorf("%w: idle state carries %s data", ErrStateMismatch, s.Data.Flow())
		}
		return nil
	}
	if s.Data == nil {
		return fmt.Errorf("%w: step %s has no data", ErrStateMismatch, s.Step)
	}
	if s.Data.Flow() != s.Step.Flow() {
		return fmt.Errorf("%w: step %s with %s data", ErrStateMismatch, s.Step, s.Data.Flow())
	}
	return nil
}

// StateManager stores one conversation slot per user, keyed by transport user id.
type StateManager interface {
	// GetState returns the user's state; idle when nothing is stored.
	GetState(ctx context.Context, userID int64) (State, error)

	// SetState replaces the user's state, discarding any previous wizard.
	SetState(ctx context.Context, userID int64, st State) error

	// UpdateState applies fn to the current state and stores the result.
	// Nothing is stored when fn returns an error.
	UpdateState(ctx context.Context, userID int64, fn func(st *State) error) error

	// ResetState returns the user to idle.
	ResetState(ctx context.Context, userID int64) error

	// CurrentStep returns the user's current step.
	CurrentStep(ctx context.Context, userID int64) (models.StateType, error)
}
