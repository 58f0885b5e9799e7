package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BTreeMap/PetDiary/internal/models"
)

// InMemoryStore is a process-local Store used by tests and by runs without a database.
type InMemoryStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*models.User // by id
	byTelegram  map[int64]int64
	pets        map[int64]models.Pet
	entries     map[int64]models.Entry
	attachments map[int64]models.Attachment
	uniqueIDs   map[string]bool
	reminders   map[int64]models.Reminder
}

// Compile-time check that InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:       make(map[int64]*models.User),
		byTelegram:  make(map[int64]int64),
		pets:        make(map[int64]models.Pet),
		entries:     make(map[int64]models.Entry),
		attachments: make(map[int64]models.Attachment),
		uniqueIDs:   make(map[string]bool),
		reminders:   make(map[int64]models.Reminder),
	}
}

func (s *InMemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *InMemoryStore) EnsureUser(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byTelegram[telegramID]; ok {
		u := *s.users[id]
		return &u, nil
	}
	u := &models.User{ID: s.id(), TelegramID: telegramID, RegisteredAt: time.Now().UTC()}
	s.users[u.ID] = u
	s.byTelegram[telegramID] = u.ID
	out := *u
	return &out, nil
}

func (s *InMemoryStore) SetActivePet(_ context.Context, userID, petID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	p, found := s.pets[petID]
	if !ok || !found || p.UserID != userID {
		return ErrNotFound
	}
	id := petID
	u.ActivePetID = &id
	return nil
}

func (s *InMemoryStore) CreatePet(_ context.Context, pet *models.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[pet.UserID]; !ok {
		return ErrNotFound
	}
	if pet.BirthDate != nil {
		d := models.DateOnly(*pet.BirthDate)
		pet.BirthDate = &d
	}
	pet.ID = s.id()
	s.pets[pet.ID] = *pet
	return nil
}

func (s *InMemoryStore) GetPet(_ context.Context, userID, petID int64) (*models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[petID]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) ListPets(_ context.Context, userID int64) ([]models.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pets []models.Pet
	for _, p := range s.pets {
		if p.UserID == userID {
			pets = append(pets, p)
		}
	}
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID < pets[j].ID })
	return pets, nil
}

func (s *InMemoryStore) CreateEntry(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[entry.PetID]; !ok {
		return ErrNotFound
	}
	entry.Date = models.DateOnly(entry.Date)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	entry.ID = s.id()
	s.entries[entry.ID] = *entry
	return nil
}

// ownsEntry reports whether the entry exists and belongs to one of the user's pets.
func (s *InMemoryStore) ownsEntry(userID, entryID int64) (models.Entry, bool) {
	e, ok := s.entries[entryID]
	if !ok {
		return e, false
	}
	p, ok := s.pets[e.PetID]
	return e, ok && p.UserID == userID
}

func (s *InMemoryStore) GetEntry(_ context.Context, userID, entryID int64) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.ownsEntry(userID, entryID)
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *InMemoryStore) ListRecentEntries(_ context.Context, petID int64, limit int) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for _, e := range s.entries {
		if e.PetID == petID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) ListEntriesBetween(_ context.Context, petID int64, from, to time.Time) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entry
	for _, e := range s.entries {
		if e.PetID == petID && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) CreateAttachment(_ context.Context, att *models.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[att.EntryID]; !ok {
		return ErrNotFound
	}
	if att.FileUniqueID != nil {
		if s.uniqueIDs[*att.FileUniqueID] {
			return ErrAlreadyExists
		}
		s.uniqueIDs[*att.FileUniqueID] = true
	}
	att.ID = s.id()
	s.attachments[att.ID] = *att
	return nil
}

func (s *InMemoryStore) ListAttachments(_ context.Context, userID, entryID int64) ([]models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownsEntry(userID, entryID); !ok {
		return nil, nil
	}
	var out []models.Attachment
	for _, a := range s.attachments {
		if a.EntryID == entryID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetAttachment(_ context.Context, userID, attachmentID int64) (*models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attachments[attachmentID]
	if !ok {
		return nil, ErrNotFound
	}
	if _, owned := s.ownsEntry(userID, a.EntryID); !owned {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryStore) CreateReminder(_ context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[r.PetID]; !ok {
		return ErrNotFound
	}
	r.ID = s.id()
	r.DueAt = r.DueAt.UTC()
	r.IsDone = false
	r.LastSentAt = nil
	s.reminders[r.ID] = *r
	return nil
}

func (s *InMemoryStore) ListPendingReminders(_ context.Context, userID int64) ([]models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reminder
	for _, r := range s.reminders {
		if r.UserID == userID && !r.IsDone {
			out = append(out, r)
		}
	}
	sortReminders(out)
	return out, nil
}

func sortReminders(rs []models.Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].DueAt.Equal(rs[j].DueAt) {
			return rs[i].DueAt.Before(rs[j].DueAt)
		}
		return rs[i].ID < rs[j].ID
	})
}

func (s *InMemoryStore) ClaimDueReminders(_ context.Context, now time.Time) ([]models.DueReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now = now.UTC()
	var claimed []models.Reminder
	for id, r := range s.reminders {
		if r.IsDone || r.DueAt.After(now) {
			continue
		}
		r.IsDone = true
		sent := now
		r.LastSentAt = &sent
		s.reminders[id] = r
		claimed = append(claimed, r)
	}
	sortReminders(claimed)

	out := make([]models.DueReminder, 0, len(claimed))
	for _, r := range claimed {
		d := models.DueReminder{Reminder: r, PetName: s.pets[r.PetID].Name}
		if u, ok := s.users[r.UserID]; ok {
			d.TelegramID = u.TelegramID
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *InMemoryStore) Stats(_ context.Context) (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := models.Stats{
		Users:       len(s.users),
		Pets:        len(s.pets),
		Entries:     len(s.entries),
		Attachments: len(s.attachments),
	}
	for _, r := range s.reminders {
		if !r.IsDone {
			st.PendingReminders++
		}
	}
	return st, nil
}

func (s *InMemoryStore) Close() error { return nil }
