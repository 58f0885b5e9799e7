package menu

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
)

// Fixed message texts.
const (
	TextWelcome         = "👋 Hi! I am PetDiary. I keep your pets' health diary: symptoms, vet visits, vaccinations and medication, and I remind you when something is due.\n\nUse the menu below to get started."
	TextHelp            = "<b>PetDiary</b>\n\n" +
		"🐾 <b>Pets</b>: add pets and choose the active one\n" +
		"📝 <b>New entry</b>: record an event for the active pet\n" +
		"📜 <b>History</b>: the latest entries and their files\n" +
		"📊 <b>Summary</b>: entries for the last 7, 30 or 90 days\n\n" +
		"/reminders lists the upcoming reminders.\n" +
		"/cancel aborts the current step."
	TextMainMenu        = "Choose an action from the menu below."
	TextCancelled       = "Cancelled. Back to the main menu."
	TextNothingToCancel = "Nothing to cancel."
	TextUnknown         = "I did not understand that. Use the menu buttons or /help."
	TextSettings        = "⚙️ Settings are in development."
	TextNoPets          = "You have no pets yet. Add the first one!"
	TextChoosePet       = "🐾 Your pets:"
	TextNeedActivePet   = "Choose the active pet first."
	TextFiles           = "📎 Files of this entry:"
	TextPetActivated    = "Active pet changed"
	TextWizardLost      = "Something went wrong with this step. Please start again."
	TextInvalidData     = "Invalid data"
	TextNotFound        = "Not found or not available."
	TextFailure         = "⚠️ Something went wrong. Please try again later."

	PromptPetName    = "What is your pet's name?\n\n" + cancelPrompt
	PromptSpecies    = "Choose the species:"
	PromptBreed      = "Type the breed or press \"Skip\"."
	PromptEntryType  = "What kind of entry is it?"
	PromptEntryDate  = "When did it happen?"
	PromptCustomDate = "Enter the date as YYYY-MM-DD, for example 2025-12-01."
	PromptEntryText  = "Describe what happened."
	PromptAttach     = "Send photos or documents one by one. Press \"Done\" when finished."
	PromptVaccine    = "Which vaccine?"
	PromptDelay      = "When should I remind you?"
	PromptCustomDays = "In how many days? Enter a whole number, for example 45."
	PromptSummary    = "📊 Choose the period:"

	TextAttachDone      = "✅ Files saved."
	TextAttachDuplicate = "This file is already attached."
	TextAttachNoMedia   = "Send a photo or a document, or press \"Done\"."
	TextNoEntries       = "No entries yet."
	TextNoFiles         = "This entry has no files."
	TextNotMeds         = "A repeat dose can only be scheduled for a medication entry."
)

// Escape escapes user-provided text for HTML messages.
func Escape(s string) string {
	return html.EscapeString(s)
}

// PetAdded confirms a newly created pet.
func PetAdded(p models.Pet) string {
	return fmt.Sprintf("%s <b>%s</b> added and set as the active pet.", SpeciesIcon(p.Species), Escape(p.Name))
}

// PetActivated confirms the active pet switch.
func PetActivated(p models.Pet) string {
	return fmt.Sprintf("✅ <b>%s</b> is now the active pet.", Escape(p.Name))
}

// Age renders the age between birth and now in whole years or months.
func Age(birth, now time.Time) string {
	months := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		months--
	}
	switch {
	case months < 0:
		return ""
	case months < 12:
		return fmt.Sprintf("%d mo.", months)
	default:
		return fmt.Sprintf("%d y.", months/12)
	}
}

// PetCard renders a pet.
func PetCard(p models.Pet, active bool, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>", SpeciesIcon(p.Species), Escape(p.Name))
	if active {
		b.WriteString(" ✅")
	}
	fmt.Fprintf(&b, "\nSpecies: %s", SpeciesLabel(p.Species))
	if p.Breed != nil {
		fmt.Fprintf(&b, "\nBreed: %s", Escape(*p.Breed))
	}
	if p.BirthDate != nil {
		fmt.Fprintf(&b, "\nBorn: %s", p.BirthDate.Format(models.DateLayout))
		if age := Age(*p.BirthDate, now); age != "" {
			fmt.Fprintf(&b, " (%s)", age)
		}
	}
	return b.String()
}

// EntrySaved confirms a newly created entry.
func EntrySaved(e models.Entry, pet models.Pet) string {
	return fmt.Sprintf("✅ Entry saved for <b>%s</b>\n%s · %s\n\nYou can attach files to it.",
		Escape(pet.Name), e.Date.Format(models.DateLayout), EntryTypeLabel(e.Type))
}

// EntryCard renders an entry with its file count.
func EntryCard(e models.Entry, files int) string {
	return fmt.Sprintf("<b>%s</b> · %s\nFiles: %d\n\n%s",
		e.Date.Format(models.DateLayout), EntryTypeLabel(e.Type), files, Escape(e.Text))
}

// History renders the heading of the history screen.
func History(pet models.Pet, entries []models.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("📜 <b>%s</b>\n\n%s", Escape(pet.Name), TextNoEntries)
	}
	return fmt.Sprintf("📜 <b>%s</b>: the latest %d entries", Escape(pet.Name), len(entries))
}

// Summary renders the entries of a period, oldest first.
func Summary(pet models.Pet, days int, entries []models.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b>, last %d days", Escape(pet.Name), days)
	if len(entries) == 0 {
		b.WriteString("\n\nNo entries for this period.")
		return b.String()
	}
	counts := make(map[models.EntryType]int)
	for _, e := range entries {
		counts[e.Type]++
	}
	b.WriteString("\n")
	for _, t := range models.EntryTypes {
		if counts[t] > 0 {
			fmt.Fprintf(&b, "\n%s: %d", EntryTypeLabel(t), counts[t])
		}
	}
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n• %s %s: %s", e.Date.Format(models.DateLayout), EntryTypeLabel(e.Type), Escape(truncate(e.Text, 80)))
	}
	return b.String()
}

// ReminderSaved confirms a scheduled reminder.
func ReminderSaved(r models.Reminder) string {
	return fmt.Sprintf("⏰ Reminder set: <b>%s</b> on %s.", Escape(r.Title), r.DueAt.Format(models.DateLayout))
}

// Reminder renders a due reminder notification.
func Reminder(d models.DueReminder) string {
	return fmt.Sprintf("⏰ <b>Reminder</b>\n\nPet: <b>%s</b>\nEvent: %s\nDate: %s",
		Escape(d.PetName), Escape(d.Title), d.DueAt.Format(models.DateLayout))
}

// PendingReminders renders the user's upcoming reminders.
func PendingReminders(rs []models.Reminder) string {
	if len(rs) == 0 {
		return "No upcoming reminders."
	}
	var b strings.Builder
	b.WriteString("⏰ <b>Upcoming reminders</b>\n")
	for _, r := range rs {
		fmt.Fprintf(&b, "\n• %s: %s", r.DueAt.Format(models.DateLayout), Escape(r.Title))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
