// Package menu builds the keyboards and message texts shown by PetDiary.
// Everything here is a pure function of the choices available.
package menu

import (
	"fmt"
	"strconv"

	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/models"
)

// Main menu button texts. The router matches incoming text against these.
const (
	ButtonPets     = "🐾 Pets"
	ButtonEntry    = "📝 New entry"
	ButtonHistory  = "📜 History"
	ButtonSummary  = "📊 Summary"
	ButtonSettings = "⚙️ Settings"
)

// Callback payloads without arguments.
var (
	PetsAdd     = models.EncodePayload(models.NSPets, "add")
	PetsList    = models.EncodePayload(models.NSPets, "list")
	PetsBack    = models.EncodePayload(models.NSPets, "back")
	BreedSkip   = models.EncodePayload(models.NSBreed, "skip")
	AttachDone  = models.EncodePayload(models.NSEntry, "attach_done")
	HistoryBack = models.EncodePayload(models.NSHistory, "back")
	DelayCustom = models.EncodePayload(models.NSVrem, "delay", "custom")
	DateToday   = models.EncodePayload(models.NSEntry, "date", "today")
	DateYest    = models.EncodePayload(models.NSEntry, "date", "yesterday")
	DateCustom  = models.EncodePayload(models.NSEntry, "date", "custom")
)

const (
	backLabel    = "⬅️ Back"
	cancelPrompt = "Send /cancel to abort."
)

// MainMenu is the persistent reply keyboard.
func MainMenu() *messaging.Keyboard {
	return messaging.ReplyKeyboard("Choose an action",
		messaging.Row(messaging.Text(ButtonPets), messaging.Text(ButtonEntry)),
		messaging.Row(messaging.Text(ButtonHistory), messaging.Text(ButtonSummary)),
		messaging.Row(messaging.Text(ButtonSettings)),
	)
}

// SpeciesIcon returns the emoji used for a species.
func SpeciesIcon(s models.Species) string {
	switch s {
	case models.SpeciesCat:
		return "🐱"
	case models.SpeciesDog:
		return "🐶"
	default:
		return "🐾"
	}
}

// SpeciesLabel returns the human-readable species name.
func SpeciesLabel(s models.Species) string {
	switch s {
	case models.SpeciesCat:
		return "Cat"
	case models.SpeciesDog:
		return "Dog"
	default:
		return "Other"
	}
}

var entryTypeLabels = map[models.EntryType]string{
	models.EntryTypeSymptom: "🤒 Symptom",
	models.EntryTypeVisit:   "🏥 Vet visit",
	models.EntryTypeVaccine: "💉 Vaccine",
	models.EntryTypeMeds:    "💊 Medication",
	models.EntryTypeOther:   "📌 Other",
}

// EntryTypeLabel returns the label of an entry type.
func EntryTypeLabel(t models.EntryType) string {
	if l, ok := entryTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// PetsListKeyboard lists the user's pets, marking the active one.
func PetsListKeyboard(pets []models.Pet, activeID *int64) *messaging.Keyboard {
	var rows [][]messaging.Button
	for _, p := range pets {
		label := SpeciesIcon(p.Species) + " " + p.Name
		if activeID != nil && *activeID == p.ID {
			label = "✅ " + label
		}
		rows = append(rows, messaging.Row(messaging.Data(label, models.EncodePayload(models.NSPet, p.ID))))
	}
	rows = append(rows, messaging.Row(messaging.Data("➕ Add pet", PetsAdd)))
	rows = append(rows, messaging.Row(messaging.Data(backLabel, PetsBack)))
	return messaging.InlineKeyboard(rows...)
}

// PetCardKeyboard offers making the pet active unless it already is.
func PetCardKeyboard(pet models.Pet, active bool) *messaging.Keyboard {
	var rows [][]messaging.Button
	if !active {
		rows = append(rows, messaging.Row(messaging.Data("⭐ Make active", models.EncodePayload(models.NSPet, "set_active", pet.ID))))
	}
	rows = append(rows, messaging.Row(messaging.Data(backLabel, PetsList)))
	return messaging.InlineKeyboard(rows...)
}

// SpeciesKeyboard is the species step of the add pet wizard.
func SpeciesKeyboard() *messaging.Keyboard {
	row := make([]messaging.Button, 0, 3)
	for _, s := range []models.Species{models.SpeciesCat, models.SpeciesDog, models.SpeciesOther} {
		row = append(row, messaging.Data(SpeciesIcon(s)+" "+SpeciesLabel(s), models.EncodePayload(models.NSSpecies, s)))
	}
	return messaging.InlineKeyboard(row)
}

// BreedKeyboard offers skipping the breed step.
func BreedKeyboard() *messaging.Keyboard {
	return messaging.InlineKeyboard(messaging.Row(messaging.Data("Skip", BreedSkip)))
}

// EntryTypesKeyboard is the first step of the add entry wizard.
func EntryTypesKeyboard() *messaging.Keyboard {
	var rows [][]messaging.Button
	for _, t := range models.EntryTypes {
		rows = append(rows, messaging.Row(messaging.Data(EntryTypeLabel(t), models.EncodePayload(models.NSEntry, "type", t))))
	}
	return messaging.InlineKeyboard(rows...)
}

// EntryDateKeyboard offers today, yesterday or a custom date.
func EntryDateKeyboard() *messaging.Keyboard {
	return messaging.InlineKeyboard(
		messaging.Row(messaging.Data("Today", DateToday), messaging.Data("Yesterday", DateYest)),
		messaging.Row(messaging.Data("📅 Other date", DateCustom)),
	)
}

// EntryActionsKeyboard is shown after an entry is saved.
func EntryActionsKeyboard(entry models.Entry) *messaging.Keyboard {
	rows := [][]messaging.Button{
		messaging.Row(messaging.Data("📎 Attach files", models.EncodePayload(models.NSEntry, "attach", entry.ID))),
	}
	switch entry.Type {
	case models.EntryTypeVaccine:
		rows = append(rows, messaging.Row(messaging.Data("⏰ Vaccine reminder", models.EncodePayload(models.NSVrem, "start", entry.ID))))
	case models.EntryTypeMeds:
		rows = append(rows, messaging.Row(messaging.Data(
			fmt.Sprintf("🔁 Repeat dose in %d days", models.MedsRepeatDays),
			models.EncodePayload(models.NSMrem, "create", entry.ID))))
	}
	return messaging.InlineKeyboard(rows...)
}

// AttachKeyboard ends the attach files wizard.
func AttachKeyboard() *messaging.Keyboard {
	return messaging.InlineKeyboard(messaging.Row(messaging.Data("✅ Done", AttachDone)))
}

// VaccinesKeyboard lists the vaccines offered for a species.
func VaccinesKeyboard(species models.Species) *messaging.Keyboard {
	var rows [][]messaging.Button
	for _, v := range models.VaccinesFor(species) {
		rows = append(rows, messaging.Row(messaging.Data(v.Title, models.EncodePayload(models.NSVrem, "vaccine", v.Slug))))
	}
	return messaging.InlineKeyboard(rows...)
}

// DelayLabel renders a fixed delay in days.
func DelayLabel(days int) string {
	switch days {
	case 30:
		return "1 month"
	case 90:
		return "3 months"
	case 180:
		return "6 months"
	case 365:
		return "1 year"
	default:
		return strconv.Itoa(days) + " days"
	}
}

// DelaysKeyboard lists the fixed vaccine reminder delays plus a custom option.
func DelaysKeyboard() *messaging.Keyboard {
	row := make([]messaging.Button, 0, len(models.VaccineDelays))
	for _, d := range models.VaccineDelays {
		row = append(row, messaging.Data(DelayLabel(d), models.EncodePayload(models.NSVrem, "delay", d)))
	}
	return messaging.InlineKeyboard(row, messaging.Row(messaging.Data("✏️ Custom", DelayCustom)))
}

// SummaryKeyboard lists the summary windows.
func SummaryKeyboard() *messaging.Keyboard {
	row := make([]messaging.Button, 0, len(models.SummaryPeriods))
	for _, d := range models.SummaryPeriods {
		row = append(row, messaging.Data(fmt.Sprintf("%d days", d), models.EncodePayload(models.NSSummary, "days", d)))
	}
	return messaging.InlineKeyboard(row)
}

// HistoryKeyboard lists entries, one button each.
func HistoryKeyboard(entries []models.Entry) *messaging.Keyboard {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]messaging.Button, 0, len(entries))
	for _, e := range entries {
		label := e.Date.Format(models.DateLayout) + " · " + EntryTypeLabel(e.Type)
		rows = append(rows, messaging.Row(messaging.Data(label, models.EncodePayload(models.NSEntry, "view", e.ID))))
	}
	return messaging.InlineKeyboard(rows...)
}

// EntryCardKeyboard links to the entry files and back to the history.
func EntryCardKeyboard(entry models.Entry, files int) *messaging.Keyboard {
	var rows [][]messaging.Button
	if files > 0 {
		rows = append(rows, messaging.Row(messaging.Data(fmt.Sprintf("📎 Files (%d)", files), models.EncodePayload(models.NSEntry, "files", entry.ID))))
	}
	rows = append(rows, messaging.Row(messaging.Data(backLabel, HistoryBack)))
	return messaging.InlineKeyboard(rows...)
}

// FilesKeyboard lists the attachments of an entry.
func FilesKeyboard(entryID int64, atts []models.Attachment) *messaging.Keyboard {
	rows := make([][]messaging.Button, 0, len(atts)+1)
	for i, a := range atts {
		label := fmt.Sprintf("🖼 Photo %d", i+1)
		if a.Kind == models.AttachmentDocument {
			label = fmt.Sprintf("📄 Document %d", i+1)
		}
		rows = append(rows, messaging.Row(messaging.Data(label, models.EncodePayload(models.NSFile, "send", a.ID))))
	}
	rows = append(rows, messaging.Row(messaging.Data(backLabel, models.EncodePayload(models.NSEntry, "view", entryID))))
	return messaging.InlineKeyboard(rows...)
}
