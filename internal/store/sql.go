package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
)

// sqlStore implements Store over database/sql. Queries are written with '?'
// placeholders and rebound for the dialect.
type sqlStore struct {
	db      *sql.DB
	name    string
	dialect string
	// isUnique reports whether err is a unique constraint violation.
	isUnique func(err error) bool
}

func (s *sqlStore) bind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.bind(query), args...)
}

func (s *sqlStore) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.bind(query), args...)
}

func (s *sqlStore) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.bind(query), args...)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqlStore) notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *sqlStore) EnsureUser(ctx context.Context, telegramID int64) (*models.User, error) {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO users (telegram_id, registered_at) VALUES (?, ?) ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID, time.Now().UTC(),
	)
	if err != nil {
		slog.Error(s.name+".EnsureUser insert failed", "error", err, "telegramID", telegramID)
		return nil, fmt.Errorf("failed to ensure user %d: %w", telegramID, err)
	}

	var u models.User
	var active sql.NullInt64
	err = s.queryRow(ctx, s.db,
		`SELECT id, telegram_id, registered_at, active_pet_id FROM users WHERE telegram_id = ?`, telegramID,
	).Scan(&u.ID, &u.TelegramID, &u.RegisteredAt, &active)
	if err != nil {
		slog.Error(s.name+".EnsureUser select failed", "error", err, "telegramID", telegramID)
		return nil, fmt.Errorf("failed to load user %d: %w", telegramID, s.notFound(err))
	}
	u.ActivePetID = int64Ptr(active)
	u.RegisteredAt = u.RegisteredAt.UTC()
	return &u, nil
}

func (s *sqlStore) SetActivePet(ctx context.Context, userID, petID int64) error {
	res, err := s.exec(ctx, s.db,
		`UPDATE users SET active_pet_id = ? WHERE id = ? AND EXISTS (SELECT 1 FROM pets WHERE pets.id = ? AND pets.user_id = ?)`,
		petID, userID, petID, userID,
	)
	if err != nil {
		slog.Error(s.name+".SetActivePet failed", "error", err, "userID", userID, "petID", petID)
		return fmt.Errorf("failed to set active pet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	slog.Debug(s.name+".SetActivePet succeeded", "userID", userID, "petID", petID)
	return nil
}

func (s *sqlStore) CreatePet(ctx context.Context, pet *models.Pet) error {
	var birth *time.Time
	if pet.BirthDate != nil {
		d := models.DateOnly(*pet.BirthDate)
		birth = &d
	}
	err := s.queryRow(ctx, s.db,
		`INSERT INTO pets (user_id, name, species, breed, birth_date) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		pet.UserID, pet.Name, string(pet.Species), pet.Breed, birth,
	).Scan(&pet.ID)
	if err != nil {
		slog.Error(s.name+".CreatePet failed", "error", err, "userID", pet.UserID)
		return fmt.Errorf("failed to insert pet: %w", err)
	}
	pet.BirthDate = birth
	slog.Debug(s.name+".CreatePet succeeded", "petID", pet.ID, "userID", pet.UserID)
	return nil
}

const petColumns = `p.id, p.user_id, p.name, p.species, p.breed, p.birth_date`

func scanPet(row interface{ Scan(...any) error }) (models.Pet, error) {
	var p models.Pet
	var species string
	var breed sql.NullString
	var birth sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &species, &breed, &birth); err != nil {
		return p, err
	}
	p.Species = models.Species(species)
	p.Breed = stringPtr(breed)
	p.BirthDate = timePtr(birth)
	return p, nil
}

func (s *sqlStore) GetPet(ctx context.Context, userID, petID int64) (*models.Pet, error) {
	p, err := scanPet(s.queryRow(ctx, s.db,
		`SELECT `+petColumns+` FROM pets p WHERE p.id = ? AND p.user_id = ?`, petID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Error(s.name+".GetPet failed", "error", err, "petID", petID)
		return nil, fmt.Errorf("failed to get pet %d: %w", petID, err)
	}
	return &p, nil
}

func (s *sqlStore) ListPets(ctx context.Context, userID int64) ([]models.Pet, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+petColumns+` FROM pets p WHERE p.user_id = ? ORDER BY p.id`, userID)
	if err != nil {
		slog.Error(s.name+".ListPets query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet row: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pet rows: %w", err)
	}
	return pets, nil
}

func (s *sqlStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	entry.Date = models.DateOnly(entry.Date)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	err := s.queryRow(ctx, s.db,
		`INSERT INTO entries (pet_id, type, date, created_at, text) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		entry.PetID, string(entry.Type), entry.Date, entry.CreatedAt, entry.Text,
	).Scan(&entry.ID)
	if err != nil {
		slog.Error(s.name+".CreateEntry failed", "error", err, "petID", entry.PetID)
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	slog.Debug(s.name+".CreateEntry succeeded", "entryID", entry.ID, "petID", entry.PetID, "type", entry.Type)
	return nil
}

const entryColumns = `e.id, e.pet_id, e.type, e.date, e.created_at, e.text`

func scanEntry(row interface{ Scan(...any) error }) (models.Entry, error) {
	var e models.Entry
	var typ string
	if err := row.Scan(&e.ID, &e.PetID, &typ, &e.Date, &e.CreatedAt, &e.Text); err != nil {
		return e, err
	}
	e.Type = models.EntryType(typ)
	e.Date = models.DateOnly(e.Date)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (s *sqlStore) GetEntry(ctx context.Context, userID, entryID int64) (*models.Entry, error) {
	e, err := scanEntry(s.queryRow(ctx, s.db,
		`SELECT `+entryColumns+` FROM entries e JOIN pets p ON p.id = e.pet_id WHERE e.id = ? AND p.user_id = ?`,
		entryID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Error(s.name+".GetEntry failed", "error", err, "entryID", entryID)
		return nil, fmt.Errorf("failed to get entry %d: %w", entryID, err)
	}
	return &e, nil
}

func (s *sqlStore) listEntries(ctx context.Context, op, query string, args ...any) ([]models.Entry, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		slog.Error(s.name+"."+op+" query failed", "error", err)
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return entries, nil
}

func (s *sqlStore) ListRecentEntries(ctx context.Context, petID int64, limit int) ([]models.Entry, error) {
	return s.listEntries(ctx, "ListRecentEntries",
		`SELECT `+entryColumns+` FROM entries e WHERE e.pet_id = ? ORDER BY e.date DESC, e.id DESC LIMIT ?`,
		petID, limit)
}

func (s *sqlStore) ListEntriesBetween(ctx context.Context, petID int64, from, to time.Time) ([]models.Entry, error) {
	return s.listEntries(ctx, "ListEntriesBetween",
		`SELECT `+entryColumns+` FROM entries e WHERE e.pet_id = ? AND e.date >= ? AND e.date <= ? ORDER BY e.date ASC, e.id ASC`,
		petID, from.UTC(), to.UTC())
}

func (s *sqlStore) CreateAttachment(ctx context.Context, att *models.Attachment) error {
	err := s.queryRow(ctx, s.db,
		`INSERT INTO attachments (entry_id, kind, file_id, file_unique_id) VALUES (?, ?, ?, ?) RETURNING id`,
		att.EntryID, string(att.Kind), att.FileID, att.FileUniqueID,
	).Scan(&att.ID)
	if err != nil {
		if s.isUnique(err) {
			slog.Debug(s.name+".CreateAttachment duplicate", "entryID", att.EntryID)
			return ErrAlreadyExists
		}
		slog.Error(s.name+".CreateAttachment failed", "error", err, "entryID", att.EntryID)
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	slog.Debug(s.name+".CreateAttachment succeeded", "attachmentID", att.ID, "entryID", att.EntryID, "kind", att.Kind)
	return nil
}

const attachmentColumns = `a.id, a.entry_id, a.kind, a.file_id, a.file_unique_id`

func scanAttachment(row interface{ Scan(...any) error }) (models.Attachment, error) {
	var a models.Attachment
	var kind string
	var unique sql.NullString
	if err := row.Scan(&a.ID, &a.EntryID, &kind, &a.FileID, &unique); err != nil {
		return a, err
	}
	a.Kind = models.AttachmentKind(kind)
	a.FileUniqueID = stringPtr(unique)
	return a, nil
}

func (s *sqlStore) ListAttachments(ctx context.Context, userID, entryID int64) ([]models.Attachment, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+attachmentColumns+` FROM attachments a
		 JOIN entries e ON e.id = a.entry_id
		 JOIN pets p ON p.id = e.pet_id
		 WHERE a.entry_id = ? AND p.user_id = ? ORDER BY a.id`,
		entryID, userID)
	if err != nil {
		slog.Error(s.name+".ListAttachments query failed", "error", err, "entryID", entryID)
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var atts []models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		atts = append(atts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachment rows: %w", err)
	}
	return atts, nil
}

func (s *sqlStore) GetAttachment(ctx context.Context, userID, attachmentID int64) (*models.Attachment, error) {
	a, err := scanAttachment(s.queryRow(ctx, s.db,
		`SELECT `+attachmentColumns+` FROM attachments a
		 JOIN entries e ON e.id = a.entry_id
		 JOIN pets p ON p.id = e.pet_id
		 WHERE a.id = ? AND p.user_id = ?`,
		attachmentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Error(s.name+".GetAttachment failed", "error", err, "attachmentID", attachmentID)
		return nil, fmt.Errorf("failed to get attachment %d: %w", attachmentID, err)
	}
	return &a, nil
}

func (s *sqlStore) CreateReminder(ctx context.Context, r *models.Reminder) error {
	r.DueAt = r.DueAt.UTC()
	err := s.queryRow(ctx, s.db,
		`INSERT INTO reminders (user_id, pet_id, entry_id, title, due_at, period_days, is_done)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		r.UserID, r.PetID, r.EntryID, r.Title, r.DueAt, r.PeriodDays, false,
	).Scan(&r.ID)
	if err != nil {
		slog.Error(s.name+".CreateReminder failed", "error", err, "userID", r.UserID, "petID", r.PetID)
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	r.IsDone = false
	slog.Debug(s.name+".CreateReminder succeeded", "reminderID", r.ID, "dueAt", r.DueAt)
	return nil
}

const reminderColumns = `r.id, r.user_id, r.pet_id, r.entry_id, r.title, r.due_at, r.period_days, r.is_done, r.last_sent_at`

func scanReminder(row interface{ Scan(...any) error }, extra ...any) (models.Reminder, error) {
	var r models.Reminder
	var entryID sql.NullInt64
	var period sql.NullInt32
	var lastSent sql.NullTime
	dest := append([]any{&r.ID, &r.UserID, &r.PetID, &entryID, &r.Title, &r.DueAt, &period, &r.IsDone, &lastSent}, extra...)
	if err := row.Scan(dest...); err != nil {
		return r, err
	}
	r.EntryID = int64Ptr(entryID)
	r.PeriodDays = intPtr(period)
	r.LastSentAt = timePtr(lastSent)
	r.DueAt = r.DueAt.UTC()
	return r, nil
}

func (s *sqlStore) ListPendingReminders(ctx context.Context, userID int64) ([]models.Reminder, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+reminderColumns+` FROM reminders r WHERE r.user_id = ? AND r.is_done = ? ORDER BY r.due_at, r.id`,
		userID, false)
	if err != nil {
		slog.Error(s.name+".ListPendingReminders query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder rows: %w", err)
	}
	return out, nil
}

func (s *sqlStore) ClaimDueReminders(ctx context.Context, now time.Time) ([]models.DueReminder, error) {
	now = now.UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error(s.name+".ClaimDueReminders begin failed", "error", err)
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + reminderColumns + `, u.telegram_id, p.name
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		JOIN pets p ON p.id = r.pet_id
		WHERE r.is_done = ? AND r.due_at <= ?
		ORDER BY r.due_at, r.id`
	if s.dialect == "postgres" {
		query += ` FOR UPDATE OF r SKIP LOCKED`
	}
	rows, err := s.query(ctx, tx, query, false, now)
	if err != nil {
		slog.Error(s.name+".ClaimDueReminders query failed", "error", err)
		return nil, fmt.Errorf("claim due reminders query failed: %w", err)
	}
	var due []models.DueReminder
	for rows.Next() {
		var d models.DueReminder
		r, err := scanReminder(rows, &d.TelegramID, &d.PetName)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		d.Reminder = r
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate due reminders: %w", err)
	}
	rows.Close()

	claimed := due[:0]
	for _, d := range due {
		res, err := s.exec(ctx, tx,
			`UPDATE reminders SET is_done = ?, last_sent_at = ? WHERE id = ? AND is_done = ?`,
			true, now, d.ID, false)
		if err != nil {
			slog.Error(s.name+".ClaimDueReminders update failed", "error", err, "reminderID", d.ID)
			return nil, fmt.Errorf("failed to mark reminder %d done: %w", d.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		d.IsDone = true
		sent := now
		d.LastSentAt = &sent
		claimed = append(claimed, d)
	}
	if err := tx.Commit(); err != nil {
		slog.Error(s.name+".ClaimDueReminders commit failed", "error", err)
		return nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}
	if len(claimed) > 0 {
		slog.Debug(s.name+".ClaimDueReminders claimed", "count", len(claimed))
	}
	return claimed, nil
}

func (s *sqlStore) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.queryRow(ctx, s.db,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM pets),
			(SELECT COUNT(*) FROM entries),
			(SELECT COUNT(*) FROM attachments),
			(SELECT COUNT(*) FROM reminders WHERE is_done = ?)`, false,
	).Scan(&st.Users, &st.Pets, &st.Entries, &st.Attachments, &st.PendingReminders)
	if err != nil {
		slog.Error(s.name+".Stats failed", "error", err)
		return st, fmt.Errorf("failed to compute stats: %w", err)
	}
	return st, nil
}

func (s *sqlStore) Close() error {
	slog.Debug("Closing " + s.name + " database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close "+s.name+" database", "error", err)
	}
	return err
}
