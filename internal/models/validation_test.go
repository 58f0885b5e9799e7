package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "past date accepted", input: "2024-06-01", want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", input: "  2024-06-01 ", want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "tomorrow within tolerance", input: "2025-06-16", want: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
		{name: "far future rejected", input: "2030-01-01", wantErr: true},
		{name: "before 1900 rejected", input: "1899-01-01", wantErr: true},
		{name: "first allowed day", input: "1900-01-01", want: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "invalid day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDate(tt.input, now)
			if tt.wantErr {
				require.Error(t, err)
				msg, ok := UserMessage(err)
				assert.True(t, ok)
				assert.NotEmpty(t, msg)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestValidatePetName(t *testing.T) {
	name, err := ValidatePetName("  Rex ")
	require.NoError(t, err)
	assert.Equal(t, "Rex", name)

	_, err = ValidatePetName("   ")
	assert.Error(t, err)

	_, err = ValidatePetName("<b>Rex</b>")
	assert.Error(t, err)

	_, err = ValidatePetName(strings.Repeat("й", MaxPetNameLength))
	assert.NoError(t, err, "length is counted in characters, not bytes")

	_, err = ValidatePetName(strings.Repeat("a", MaxPetNameLength+1))
	assert.Error(t, err)
}

func TestValidateBreed(t *testing.T) {
	breed, err := ValidateBreed(" Husky ")
	require.NoError(t, err)
	assert.Equal(t, "Husky", breed)

	_, err = ValidateBreed("")
	assert.Error(t, err)

	_, err = ValidateBreed("a>b")
	assert.Error(t, err)
}

func TestValidateEntryText(t *testing.T) {
	text, err := ValidateEntryText("\n coughing \n")
	require.NoError(t, err)
	assert.Equal(t, "coughing", text)

	_, err = ValidateEntryText(" ")
	assert.Error(t, err)

	_, err = ValidateEntryText(strings.Repeat("x", MaxEntryTextLength+1))
	assert.Error(t, err)
}

func TestValidateDelayDays(t *testing.T) {
	days, err := ValidateDelayDays("45")
	require.NoError(t, err)
	assert.Equal(t, 45, days)

	for _, raw := range []string{"0", "-3", "abc", "1.5", "", "99999"} {
		_, err := ValidateDelayDays(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestStateTypeFlow(t *testing.T) {
	assert.Equal(t, FlowTypeAddPet, StateAddPetBreed.Flow())
	assert.Equal(t, FlowTypeVaccineReminder, StateVaccineCustomDelay.Flow())
	assert.Equal(t, FlowType(""), StateIdle.Flow())
}

func TestFindVaccine(t *testing.T) {
	v, ok := FindVaccine(SpeciesDog, "lepto")
	require.True(t, ok)
	assert.Equal(t, "Leptospirosis", v.Title)

	_, ok = FindVaccine(SpeciesCat, "lepto")
	assert.False(t, ok, "dog-only vaccine must not be offered for cats")

	v, ok = FindVaccine(SpeciesOther, "other")
	require.True(t, ok)
	assert.Equal(t, VaccineOther, v)
}
