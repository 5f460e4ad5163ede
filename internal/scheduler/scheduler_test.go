package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"examnova/internal/delivery"
	"examnova/internal/domain"
)

var testNow = time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticIdentity struct {
	id string
	ok bool
}

func (i staticIdentity) CurrentUserID() (string, bool) { return i.id, i.ok }

type fakeStore struct {
	mu      sync.Mutex
	records map[string][]domain.ReminderRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]domain.ReminderRecord)}
}

func (s *fakeStore) ListAll(userID string) ([]domain.ReminderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReminderRecord, len(s.records[userID]))
	copy(out, s.records[userID])
	return out, nil
}

func (s *fakeStore) MarkNotified(userID, reminderID string) error {
	return s.setFlag(userID, reminderID, func(r *domain.ReminderRecord) { r.Notified = true })
}

func (s *fakeStore) MarkEmailSent(userID, reminderID string) error {
	return s.setFlag(userID, reminderID, func(r *domain.ReminderRecord) { r.EmailSent = true })
}

func (s *fakeStore) setFlag(userID, reminderID string, apply func(*domain.ReminderRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[userID]
	for i := range records {
		if records[i].ID == reminderID {
			apply(&records[i])
			s.records[userID] = records
			return nil
		}
	}
	return errors.New("reminder not found")
}

func (s *fakeStore) get(userID, reminderID string) (domain.ReminderRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records[userID] {
		if r.ID == reminderID {
			return r, true
		}
	}
	return domain.ReminderRecord{}, false
}

type recordingNotifier struct {
	mu     sync.Mutex
	bodies []string
	err    error
	block  chan struct{}
}

func (n *recordingNotifier) Notify(_ context.Context, _, body string) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bodies = append(n.bodies, body)
	return n.err
}

func (n *recordingNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.bodies))
	copy(out, n.bodies)
	return out
}

type recordingEmail struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (e *recordingEmail) Send(_ context.Context, r domain.ReminderRecord) error {
	if e.err != nil {
		return e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, r.ID)
	return nil
}

func dueReminder(id string) domain.ReminderRecord {
	return domain.ReminderRecord{
		ID:           id,
		ExamID:       "exam-abc",
		ExamTitle:    "SSC CGL 2024",
		ReminderDate: testNow.Add(-time.Hour),
		Deadline:     "31 Dec 2024",
	}
}

func newTestScheduler(store *fakeStore, notifier *recordingNotifier, email *recordingEmail) *Scheduler {
	deps := Deps{
		Store:    store,
		Notifier: notifier,
		Identity: staticIdentity{id: "u1", ok: true},
		Clock:    fixedClock{now: testNow},
	}
	if email != nil {
		deps.Email = email
	}
	return New(deps)
}

func TestTickNotifiesDueRemindersOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["u1"] = []domain.ReminderRecord{
		dueReminder("exam-abc_1"),
		{
			ID:           "exam-def_2",
			ExamID:       "exam-def",
			ExamTitle:    "UPSC CSE 2025",
			ReminderDate: testNow.Add(time.Hour), // not yet due
		},
	}
	notifier := &recordingNotifier{}
	s := newTestScheduler(store, notifier, nil)

	s.tick(context.Background())
	s.tick(context.Background())

	calls := notifier.calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one notification across two ticks, got %d", len(calls))
	}
	if !strings.Contains(calls[0], "SSC CGL 2024") || !strings.Contains(calls[0], "31 Dec 2024") {
		t.Fatalf("notification must name the exam and deadline, got %q", calls[0])
	}

	r, _ := store.get("u1", "exam-abc_1")
	if !r.Notified {
		t.Fatal("fired reminder must be marked notified")
	}
}

func TestTickSkipsWithoutUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["u1"] = []domain.ReminderRecord{dueReminder("exam-abc_1")}
	notifier := &recordingNotifier{}
	s := New(Deps{
		Store:    store,
		Notifier: notifier,
		Identity: staticIdentity{},
		Clock:    fixedClock{now: testNow},
	})

	s.tick(context.Background())

	if len(notifier.calls()) != 0 {
		t.Fatal("scan must be skipped when no user is authenticated")
	}
}

func TestTickRetriesAfterNotifyFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["u1"] = []domain.ReminderRecord{dueReminder("exam-abc_1")}
	notifier := &recordingNotifier{err: errors.New("webhook down")}
	s := newTestScheduler(store, notifier, nil)

	s.tick(context.Background())

	r, _ := store.get("u1", "exam-abc_1")
	if r.Notified {
		t.Fatal("failed delivery must leave the reminder unnotified for the next tick")
	}
}

func TestTickSendsEmailAndMarksSent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	reminder := dueReminder("exam-abc_1")
	reminder.Email = "user@example.test"
	store.records["u1"] = []domain.ReminderRecord{reminder}
	email := &recordingEmail{}
	s := newTestScheduler(store, &recordingNotifier{}, email)

	s.tick(context.Background())

	if len(email.sent) != 1 || email.sent[0] != "exam-abc_1" {
		t.Fatalf("expected one email for exam-abc_1, got %v", email.sent)
	}
	r, _ := store.get("u1", "exam-abc_1")
	if !r.EmailSent {
		t.Fatal("delivered email must be marked sent")
	}
}

func TestTickLeavesEmailUnsentWhenChannelUnavailable(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	reminder := dueReminder("exam-abc_1")
	reminder.Email = "user@example.test"
	store.records["u1"] = []domain.ReminderRecord{reminder}
	email := &recordingEmail{err: delivery.ErrChannelUnavailable}
	s := newTestScheduler(store, &recordingNotifier{}, email)

	s.tick(context.Background())

	r, _ := store.get("u1", "exam-abc_1")
	if !r.Notified {
		t.Fatal("notification channel succeeded, reminder must be marked notified")
	}
	if r.EmailSent {
		t.Fatal("unavailable email channel must leave the reminder unsent")
	}
}

func TestRunTickSkipsOverlappingExecution(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.records["u1"] = []domain.ReminderRecord{dueReminder("exam-abc_1")}
	notifier := &recordingNotifier{block: make(chan struct{})}
	s := newTestScheduler(store, notifier, nil)

	done := make(chan struct{})
	go func() {
		s.runTick(context.Background())
		close(done)
	}()

	// Wait for the first tick to be mid-delivery, then attempt a second.
	for !s.inFlight.Load() {
		time.Sleep(time.Millisecond)
	}
	s.runTick(context.Background())

	close(notifier.block)
	<-done

	if got := len(notifier.calls()); got != 1 {
		t.Fatalf("overlapping tick must be skipped, got %d deliveries", got)
	}
}
