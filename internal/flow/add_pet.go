package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BTreeMap/PetDiary/internal/menu"
	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/router"
)

// StartAddPet opens the add pet wizard, discarding any wizard in progress.
func (e *Engine) StartAddPet(ctx context.Context, req *router.Request) error {
	if err := e.states.SetState(ctx, req.UserID(), State{Step: models.StateAddPetName, Data: AddPetData{}}); err != nil {
		return err
	}
	return req.Send(ctx, menu.PromptPetName, nil)
}

// PetName handles the name answer.
func (e *Engine) PetName(ctx context.Context, req *router.Request) error {
	name, err := models.ValidatePetName(req.Value())
	if err != nil {
		return e.invalid(ctx, req, err)
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(AddPetData)
		if !ok {
			return errContextLost
		}
		d.Name = name
		st.Step, st.Data = models.StateAddPetSpecies, d
		return nil
	})
}

// PetSpecies handles a species:<species> button.
func (e *Engine) PetSpecies(ctx context.Context, req *router.Request) error {
	raw, err := choice(req, 2)
	if err != nil {
		return err
	}
	species := models.Species(raw)
	if !models.IsValidSpecies(species) {
		return fmt.Errorf("%w: unknown species %q", models.ErrInvalidPayload, raw)
	}
	return e.advance(ctx, req, func(st *State) error {
		d, ok := st.Data.(AddPetData)
		if !ok || d.Name == "" {
			return errContextLost
		}
		d.Species = species
		st.Step, st.Data = models.StateAddPetBreed, d
		return nil
	})
}

// PetBreed handles a typed breed.
func (e *Engine) PetBreed(ctx context.Context, req *router.Request) error {
	breed, err := models.ValidateBreed(req.Value())
	if err != nil {
		return e.invalid(ctx, req, err)
	}
	return e.createPet(ctx, req, &breed)
}

// SkipBreed handles the skip button; the pet is stored without a breed.
func (e *Engine) SkipBreed(ctx context.Context, req *router.Request) error {
	return e.createPet(ctx, req, nil)
}

func (e *Engine) createPet(ctx context.Context, req *router.Request, breed *string) error {
	st, err := e.states.GetState(ctx, req.UserID())
	if err != nil {
		return err
	}
	d, ok := st.Data.(AddPetData)
	if !ok || d.Name == "" || !models.IsValidSpecies(d.Species) {
		return e.lost(ctx, req, errContextLost)
	}

	pet := &models.Pet{UserID: req.User.ID, Name: d.Name, Species: d.Species, Breed: breed}
	if err := e.store.CreatePet(ctx, pet); err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	if err := e.store.SetActivePet(ctx, req.User.ID, pet.ID); err != nil {
		return fmt.Errorf("failed to activate pet: %w", err)
	}
	req.User.ActivePetID = &pet.ID
	if err := e.finish(ctx, req); err != nil {
		return err
	}
	slog.Info("Engine pet added", "userID", req.User.ID, "petID", pet.ID, "species", pet.Species)

	req.Answer(ctx, "", false)
	return req.Send(ctx, menu.PetAdded(*pet), menu.MainMenu())
}
