// Package store provides storage backends for PetDiary.
//
// It defines the Store interface over users, pets, entries, attachments and
// reminders, with SQLite, PostgreSQL and in-memory implementations.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
)

var (
	// ErrNotFound indicates the entity does not exist or is not owned by the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)

// Store is the durable entity store. Lookups taking a userID join through
// ownership and return ErrNotFound for entities owned by someone else.
type Store interface {
	// EnsureUser returns the user with the given telegram id, creating it on first contact.
	EnsureUser(ctx context.Context, telegramID int64) (*models.User, error)
	// SetActivePet points the user's active pet at one of their pets.
	SetActivePet(ctx context.Context, userID, petID int64) error

	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPet(ctx context.Context, userID, petID int64) (*models.Pet, error)
	// ListPets returns the user's pets ordered by id.
	ListPets(ctx context.Context, userID int64) ([]models.Pet, error)

	CreateEntry(ctx context.Context, entry *models.Entry) error
	GetEntry(ctx context.Context, userID, entryID int64) (*models.Entry, error)
	// ListRecentEntries returns at most limit entries of a pet, newest event date first.
	ListRecentEntries(ctx context.Context, petID int64, limit int) ([]models.Entry, error)
	// ListEntriesBetween returns a pet's entries with from <= date <= to, oldest first.
	ListEntriesBetween(ctx context.Context, petID int64, from, to time.Time) ([]models.Entry, error)

	// CreateAttachment returns ErrAlreadyExists when the file unique id was already stored.
	CreateAttachment(ctx context.Context, att *models.Attachment) error
	ListAttachments(ctx context.Context, userID, entryID int64) ([]models.Attachment, error)
	GetAttachment(ctx context.Context, userID, attachmentID int64) (*models.Attachment, error)

	CreateReminder(ctx context.Context, r *models.Reminder) error
	// ListPendingReminders returns the user's reminders not yet sent, soonest first.
	ListPendingReminders(ctx context.Context, userID int64) ([]models.Reminder, error)
	// ClaimDueReminders atomically marks every pending reminder with due_at <= now
	// as done, stamps last_sent_at = now and returns the claimed reminders.
	// A reminder is returned by at most one call.
	ClaimDueReminders(ctx context.Context, now time.Time) ([]models.DueReminder, error)

	Stats(ctx context.Context) (models.Stats, error)
	Close() error
}

// Opts holds configuration options for database stores.
type Opts struct {
	DSN string
}

// Option defines a configuration option for a store.
type Option func(*Opts)

// WithSQLiteDSN sets the SQLite database path or DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType returns "postgres" for PostgreSQL connection strings and "sqlite3" otherwise.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// Open creates a store for the DSN, detecting the backend from its shape.
func Open(dsn string) (Store, error) {
	if DetectDSNType(dsn) == "postgres" {
		return NewPostgresStore(WithPostgresDSN(dsn))
	}
	return NewSQLiteStore(WithSQLiteDSN(dsn))
}
