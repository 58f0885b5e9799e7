// Package models defines the core data structures for PetDiary.
//
// It includes the persisted entities (users, pets, entries, attachments and
// reminders) and the enumerations shared across modules.
package models

import "time"

// Species identifies the kind of animal a pet is.
type Species string

const (
	SpeciesCat   Species = "cat"
	SpeciesDog   Species = "dog"
	SpeciesOther Species = "other"
)

// IsValidSpecies checks if the given species is supported.
func IsValidSpecies(s Species) bool {
	switch s {
	case SpeciesCat, SpeciesDog, SpeciesOther:
		return true
	default:
		return false
	}
}

// EntryType classifies a diary entry.
type EntryType string

const (
	EntryTypeSymptom EntryType = "symptom"
	EntryTypeVisit   EntryType = "visit"
	EntryTypeVaccine EntryType = "vaccine"
	EntryTypeMeds    EntryType = "meds"
	EntryTypeOther   EntryType = "other"
)

// EntryTypes lists entry types in menu order.
var EntryTypes = []EntryType{
	EntryTypeSymptom,
	EntryTypeVisit,
	EntryTypeVaccine,
	EntryTypeMeds,
	EntryTypeOther,
}

// IsValidEntryType checks if the given entry type is supported.
func IsValidEntryType(t EntryType) bool {
	for _, et := range EntryTypes {
		if et == t {
			return true
		}
	}
	return false
}

// AttachmentKind describes how an attachment was uploaded and must be resent.
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photo"
	AttachmentDocument AttachmentKind = "document"
)

// Validation and behaviour constants
const (
	// MaxPetNameLength defines the maximum allowed length for a pet name
	MaxPetNameLength = 64
	// MaxBreedLength defines the maximum allowed length for a breed
	MaxBreedLength = 64
	// MaxEntryTextLength defines the maximum allowed length for entry text
	MaxEntryTextLength = 2000
	// MaxHistoryItems is the number of entries shown in the history screen
	MaxHistoryItems = 10
	// MedsRepeatDays is the delay of the medication repeat reminder, counted from the entry date
	MedsRepeatDays = 10
	// MaxReminderDelayDays caps custom reminder delays
	MaxReminderDelayDays = 3650
)

// VaccineDelays lists the fixed reminder intervals, in days, offered by the vaccine wizard.
var VaccineDelays = []int{30, 90, 180, 365}

// SummaryPeriods lists the summary windows, in days.
var SummaryPeriods = []int{7, 30, 90}

// User is a chat platform user, created lazily on first interaction.
type User struct {
	ID           int64
	TelegramID   int64
	RegisteredAt time.Time
	ActivePetID  *int64
}

// HasActivePet reports whether the user designated an active pet.
func (u *User) HasActivePet() bool {
	return u != nil && u.ActivePetID != nil
}

// Pet is an animal owned by a user.
type Pet struct {
	ID        int64
	UserID    int64
	Name      string
	Species   Species
	Breed     *string
	BirthDate *time.Time
}

// Entry is an immutable diary record attached to a pet.
type Entry struct {
	ID        int64
	PetID     int64
	Type      EntryType
	Date      time.Time // user supplied event date, midnight UTC
	CreatedAt time.Time
	Text      string
}

// Attachment is a file uploaded for an entry. FileID is the opaque transport handle.
type Attachment struct {
	ID           int64
	EntryID      int64
	Kind         AttachmentKind
	FileID       string
	FileUniqueID *string
}

// Reminder is a one-shot notification consumed exactly once by the scheduler.
type Reminder struct {
	ID         int64
	UserID     int64
	PetID      int64
	EntryID    *int64
	Title      string
	DueAt      time.Time
	PeriodDays *int // reserved for recurring reminders, currently unused
	IsDone     bool
	LastSentAt *time.Time
}

// DueReminder is a claimed reminder joined with what is needed to notify its owner.
type DueReminder struct {
	Reminder
	TelegramID int64
	PetName    string
}

// Stats summarises store contents for the ops API.
type Stats struct {
	Users            int `json:"users"`
	Pets             int `json:"pets"`
	Entries          int `json:"entries"`
	Attachments      int `json:"attachments"`
	PendingReminders int `json:"pending_reminders"`
}

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
