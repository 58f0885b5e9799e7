package menu

import (
	"testing"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetsListMarksActive(t *testing.T) {
	active := int64(2)
	kb := PetsListKeyboard([]models.Pet{
		{ID: 1, Name: "Tom", Species: models.SpeciesCat},
		{ID: 2, Name: "Rex", Species: models.SpeciesDog},
	}, &active)

	b, ok := kb.FindData("pet:2")
	require.True(t, ok)
	assert.Equal(t, "✅ 🐶 Rex", b.Text)
	b, ok = kb.FindData("pet:1")
	require.True(t, ok)
	assert.Equal(t, "🐱 Tom", b.Text)
	_, ok = kb.FindData(PetsAdd)
	assert.True(t, ok)
}

func TestEntryActionsDependOnType(t *testing.T) {
	vaccine := EntryActionsKeyboard(models.Entry{ID: 5, Type: models.EntryTypeVaccine})
	_, ok := vaccine.FindData("vrem:start:5")
	assert.True(t, ok)
	_, ok = vaccine.FindData("mrem:create:5")
	assert.False(t, ok)

	meds := EntryActionsKeyboard(models.Entry{ID: 6, Type: models.EntryTypeMeds})
	_, ok = meds.FindData("mrem:create:6")
	assert.True(t, ok)
	_, ok = meds.FindData("entry:attach:6")
	assert.True(t, ok)
}

func TestVaccinesKeyboardPerSpecies(t *testing.T) {
	_, ok := VaccinesKeyboard(models.SpeciesDog).FindData("vrem:vaccine:dhppi")
	assert.True(t, ok)
	_, ok = VaccinesKeyboard(models.SpeciesCat).FindData("vrem:vaccine:dhppi")
	assert.False(t, ok)
	assert.Len(t, VaccinesKeyboard(models.SpeciesOther).Buttons(), 1)
}

func TestDelaysKeyboard(t *testing.T) {
	kb := DelaysKeyboard()
	for _, d := range []string{"vrem:delay:30", "vrem:delay:90", "vrem:delay:180", "vrem:delay:365", DelayCustom} {
		_, ok := kb.FindData(d)
		assert.True(t, ok, d)
	}
}

func TestTextsEscapeUserInput(t *testing.T) {
	e := models.Entry{Type: models.EntryTypeSymptom, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Text: "ate <chocolate> & vomited"}
	card := EntryCard(e, 2)
	assert.Contains(t, card, "ate &lt;chocolate&gt; &amp; vomited")
	assert.Contains(t, card, "2025-01-02")
	assert.Contains(t, card, "Files: 2")
}

func TestReminderText(t *testing.T) {
	d := models.DueReminder{
		Reminder: models.Reminder{Title: "Rabies", DueAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		PetName:  "Rex",
	}
	assert.Equal(t, "⏰ <b>Reminder</b>\n\nPet: <b>Rex</b>\nEvent: Rabies\nDate: 2025-03-01", Reminder(d))
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 y.", Age(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "5 mo.", Age(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "", Age(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestSummaryCountsByType(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := Summary(models.Pet{Name: "Rex"}, 7, []models.Entry{
		{Type: models.EntryTypeSymptom, Date: day, Text: "a"},
		{Type: models.EntryTypeSymptom, Date: day, Text: "b"},
		{Type: models.EntryTypeVisit, Date: day, Text: "c"},
	})
	assert.Contains(t, out, "🤒 Symptom: 2")
	assert.Contains(t, out, "🏥 Vet visit: 1")
	assert.Contains(t, Summary(models.Pet{Name: "Rex"}, 30, nil), "No entries for this period.")
}
