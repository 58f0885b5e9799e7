package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSpecies(t *testing.T) {
	for _, s := range []Species{SpeciesCat, SpeciesDog, SpeciesOther} {
		assert.True(t, IsValidSpecies(s), s)
	}
	assert.False(t, IsValidSpecies("parrot"))
	assert.False(t, IsValidSpecies(""))
}

func TestIsValidEntryType(t *testing.T) {
	for _, et := range EntryTypes {
		assert.True(t, IsValidEntryType(et), et)
	}
	assert.False(t, IsValidEntryType("surgery"))
}

func TestHasActivePet(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.HasActivePet())
	assert.False(t, (&User{ID: 1}).HasActivePet())

	petID := int64(7)
	assert.True(t, (&User{ID: 1, ActivePetID: &petID}).HasActivePet())
}

func TestDateOnly(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), DateOnly(late))

	noon := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), DateOnly(noon))
}

func TestWizardStatesBelongToWizards(t *testing.T) {
	states := WizardStates()
	assert.Len(t, states, 11)
	for _, s := range states {
		assert.NotEmpty(t, s.Flow(), s)
	}
	assert.NotContains(t, states, StateIdle)
}
