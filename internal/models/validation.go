package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the user-entered date literal format.
const DateLayout = "2006-01-02"

// ValidationError is a recoverable input error. Message is shown to the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UserMessage extracts the user-facing message from a validation error.
func UserMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	return "", false
}

func hasMarkup(s string) bool {
	return strings.ContainsAny(s, "<>")
}

// ValidatePetName trims and validates a pet name.
func ValidatePetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "The name cannot be empty. Please try again.")
	}
	if utf8.RuneCountInString(name) > MaxPetNameLength {
		return "", invalid("name", "The name is too long (at most %d characters).", MaxPetNameLength)
	}
	if hasMarkup(name) {
		return "", invalid("name", "The name contains forbidden characters.")
	}
	return name, nil
}

// ValidateBreed trims and validates a breed. An empty breed is rejected;
// callers map the explicit skip signal to an absent breed themselves.
func ValidateBreed(breed string) (string, error) {
	breed = strings.TrimSpace(breed)
	if breed == "" {
		return "", invalid("breed", "The breed cannot be empty. Type it or press \"Skip\".")
	}
	if utf8.RuneCountInString(breed) > MaxBreedLength {
		return "", invalid("breed", "The breed is too long (at most %d characters).", MaxBreedLength)
	}
	if hasMarkup(breed) {
		return "", invalid("breed", "The breed contains forbidden characters.")
	}
	return breed, nil
}

// ValidateEntryText trims and validates the free text of an entry.
func ValidateEntryText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("text", "The entry text cannot be empty. Please describe what happened.")
	}
	if utf8.RuneCountInString(text) > MaxEntryTextLength {
		return "", invalid("text", "The text is too long (at most %d characters).", MaxEntryTextLength)
	}
	return text, nil
}

var minEntryDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// ValidateDate parses a YYYY-MM-DD literal. Dates more than one day after now
// and dates before 1900 are rejected. The result is midnight UTC.
func ValidateDate(raw string, now time.Time) (time.Time, error) {
	dt, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, invalid("date", "Could not parse the date. Use the YYYY-MM-DD format, for example 2025-12-01.")
	}
	if dt.After(now.UTC().Add(24 * time.Hour)) {
		return time.Time{}, invalid("date", "The date cannot be in the future.")
	}
	if dt.Before(minEntryDate) {
		return time.Time{}, invalid("date", "The date is too old (1900 at the earliest).")
	}
	return dt, nil
}

// ValidateDelayDays parses a positive number of days.
func ValidateDelayDays(raw string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("days", "Please enter a whole number of days, for example 30.")
	}
	if days <= 0 {
		return 0, invalid("days", "The number of days must be greater than zero.")
	}
	if days > MaxReminderDelayDays {
		return 0, invalid("days", "The number of days must be at most %d.", MaxReminderDelayDays)
	}
	return days, nil
}
