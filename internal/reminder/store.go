// Package reminder keeps each user's deadline reminders and bookmarks in the
// local key-value store. Collections are rewritten wholesale on every
// mutation; a per-user lock serializes the read-modify-write so a UI save
// racing a scheduler flag flip cannot lose an update.
package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"examnova/internal/domain"
	"examnova/internal/ports"
	"examnova/internal/storage"
)

var (
	// ErrNotFound is returned when no reminder exists for the lookup.
	ErrNotFound = errors.New("reminder not found")
	// ErrValidation marks user-input failures surfaced before any write.
	ErrValidation = errors.New("invalid reminder")
)

// keyValue is the slice of the storage layer the stores need.
type keyValue interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

var _ keyValue = (*storage.KV)(nil)

// Store owns the per-user reminder collections.
type Store struct {
	kv    keyValue
	clock ports.Clock
	locks *userLocks
}

var _ ports.ReminderStore = (*Store)(nil)

// NewStore wires the key-value backend; a nil clock means wall time.
func NewStore(kv keyValue, clock ports.Clock) *Store {
	if clock == nil {
		clock = systemClock{}
	}
	return &Store{kv: kv, clock: clock, locks: newUserLocks()}
}

// Save creates a reminder for the exam, silently replacing any existing
// reminder for the same exam. Validation failures surface before anything
// is written.
func (s *Store) Save(userID, examID, examTitle string, reminderDate time.Time, deadline, email string) (domain.ReminderRecord, error) {
	if userID == "" || examID == "" {
		return domain.ReminderRecord{}, fmt.Errorf("%w: user and exam ids are required", ErrValidation)
	}
	if reminderDate.IsZero() {
		return domain.ReminderRecord{}, fmt.Errorf("%w: reminder date is required", ErrValidation)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.ReminderRecord{}, fmt.Errorf("%w: malformed email %q", ErrValidation, email)
		}
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	records, err := s.load(userID)
	if err != nil {
		return domain.ReminderRecord{}, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ExamID != examID {
			kept = append(kept, r)
		}
	}

	now := s.clock.Now().UTC()
	record := domain.ReminderRecord{
		ID:           domain.NewReminderID(examID, now),
		ExamID:       examID,
		ExamTitle:    examTitle,
		ReminderDate: reminderDate.UTC(),
		Deadline:     deadline,
		Email:        email,
		CreatedAt:    now,
	}
	kept = append(kept, record)

	if err := s.persist(userID, kept); err != nil {
		return domain.ReminderRecord{}, err
	}

	return record, nil
}

// Get returns the active reminder for the exam, or ErrNotFound.
func (s *Store) Get(userID, examID string) (domain.ReminderRecord, error) {
	records, err := s.load(userID)
	if err != nil {
		return domain.ReminderRecord{}, err
	}

	for _, r := range records {
		if r.ExamID == examID {
			return r, nil
		}
	}

	return domain.ReminderRecord{}, ErrNotFound
}

// Delete removes the reminder for the exam and reports whether one existed.
func (s *Store) Delete(userID, examID string) (bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	records, err := s.load(userID)
	if err != nil {
		return false, err
	}

	kept := records[:0]
	removed := false
	for _, r := range records {
		if r.ExamID == examID {
			removed = true
			continue
		}
		kept = append(kept, r)
	}

	if !removed {
		return false, nil
	}

	if err := s.persist(userID, kept); err != nil {
		return false, err
	}

	return true, nil
}

// ListAll returns the user's reminders in stored order; callers sort by
// reminder date as needed.
func (s *Store) ListAll(userID string) ([]domain.ReminderRecord, error) {
	return s.load(userID)
}

// MarkNotified flips the notified flag for one reminder in place.
func (s *Store) MarkNotified(userID, reminderID string) error {
	return s.setFlag(userID, reminderID, func(r *domain.ReminderRecord) {
		r.Notified = true
	})
}

// MarkEmailSent flips the emailSent flag for one reminder in place.
func (s *Store) MarkEmailSent(userID, reminderID string) error {
	return s.setFlag(userID, reminderID, func(r *domain.ReminderRecord) {
		r.EmailSent = true
	})
}

func (s *Store) setFlag(userID, reminderID string, apply func(*domain.ReminderRecord)) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	records, err := s.load(userID)
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].ID == reminderID {
			apply(&records[i])
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	return s.persist(userID, records)
}

func (s *Store) load(userID string) ([]domain.ReminderRecord, error) {
	raw, err := s.kv.Get(remindersKey(userID))
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.ReminderRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reminders for %s: %w", userID, err)
	}

	var records []domain.ReminderRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("parse reminders for %s: %w", userID, err)
	}

	return records, nil
}

func (s *Store) persist(userID string, records []domain.ReminderRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal reminders for %s: %w", userID, err)
	}

	if err := s.kv.Put(remindersKey(userID), string(raw)); err != nil {
		return fmt.Errorf("persist reminders for %s: %w", userID, err)
	}

	return nil
}

func remindersKey(userID string) string {
	return "reminders_" + userID
}

// userLocks hands out one mutex per user id. There is no cross-user
// contention by design, so the map only ever grows by active users.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: map[string]*sync.Mutex{}}
}

func (u *userLocks) lock(userID string) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
