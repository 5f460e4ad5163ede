package reminder

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"examnova/internal/storage"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type failingKV struct{}

func (failingKV) Get(string) (string, error) { return "", errors.New("disk gone") }
func (failingKV) Put(string, string) error   { return errors.New("disk gone") }

func newTestStore(t *testing.T, clock fixedClock) *Store {
	t.Helper()
	kv, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return NewStore(kv, clock)
}

var testNow = time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC)

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fixedClock{now: testNow})

	saved, err := store.Save("user-1", "exam-abc", "SSC CGL 2024", testNow.Add(time.Hour), "31 Dec 2024", "")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if want := fmt.Sprintf("exam-abc_%d", testNow.UnixMilli()); saved.ID != want {
		t.Fatalf("reminder id = %s, want %s", saved.ID, want)
	}
	if saved.Notified || saved.EmailSent {
		t.Fatal("new reminders must start with both flags unset")
	}

	got, err := store.Get("user-1", "exam-abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ExamTitle != "SSC CGL 2024" {
		t.Fatalf("unexpected title: %s", got.ExamTitle)
	}
}

func TestSaveReplacesExistingReminderForExam(t *testing.T) {
	t.Parallel()

	clock := fixedClock{now: testNow}
	store := newTestStore(t, clock)

	if _, err := store.Save("user-1", "exam-abc", "first", testNow.Add(time.Hour), "d1", ""); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := store.Save("user-1", "exam-abc", "second", testNow.Add(2*time.Hour), "d2", ""); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	all, err := store.ListAll("user-1")
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one reminder per exam, got %d", len(all))
	}
	if all[0].ExamTitle != "second" || all[0].Deadline != "d2" {
		t.Fatalf("replace must keep the later save, got %+v", all[0])
	}
}

func TestSaveValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fixedClock{now: testNow})

	if _, err := store.Save("user-1", "exam-abc", "t", time.Time{}, "d", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero date must fail validation, got %v", err)
	}
	if _, err := store.Save("user-1", "exam-abc", "t", testNow, "d", "not-an-email"); !errors.Is(err, ErrValidation) {
		t.Fatalf("malformed email must fail validation, got %v", err)
	}
	if _, err := store.Save("", "exam-abc", "t", testNow, "d", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing user must fail validation, got %v", err)
	}

	all, err := store.ListAll("user-1")
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("validation failures must not persist records, got %d", len(all))
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fixedClock{now: testNow})

	if _, err := store.Save("user-1", "exam-abc", "t", testNow, "d", ""); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	removed, err := store.Delete("user-1", "exam-abc")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}

	removed, err = store.Delete("user-1", "exam-abc")
	if err != nil {
		t.Fatalf("second Delete error: %v", err)
	}
	if removed {
		t.Fatal("second delete must report nothing removed")
	}

	if _, err := store.Get("user-1", "exam-abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMarkNotified(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fixedClock{now: testNow})

	saved, err := store.Save("user-1", "exam-abc", "t", testNow, "d", "")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := store.MarkNotified("user-1", saved.ID); err != nil {
		t.Fatalf("MarkNotified error: %v", err)
	}

	got, err := store.Get("user-1", "exam-abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !got.Notified {
		t.Fatal("notified flag must be persisted")
	}
	if got.EmailSent {
		t.Fatal("emailSent must stay unset")
	}

	if err := store.MarkNotified("user-1", "missing-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestCollectionsAreScopedByUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fixedClock{now: testNow})

	if _, err := store.Save("user-1", "exam-abc", "t", testNow, "d", ""); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	other, err := store.ListAll("user-2")
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("reminders must not leak across users, got %d", len(other))
	}
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	t.Parallel()

	store := NewStore(failingKV{}, fixedClock{now: testNow})

	if _, err := store.Save("user-1", "exam-abc", "t", testNow, "d", ""); err == nil {
		t.Fatal("expected persistence failure to surface")
	}
	if _, err := store.ListAll("user-1"); err == nil {
		t.Fatal("expected load failure to surface")
	}
}

func TestBookmarksToggle(t *testing.T) {
	t.Parallel()

	kv, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	bookmarks := NewBookmarks(kv)

	on, err := bookmarks.Toggle("user-1", "exam-abc")
	if err != nil || !on {
		t.Fatalf("first toggle should bookmark: on=%v err=%v", on, err)
	}

	ids, err := bookmarks.List("user-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "exam-abc" {
		t.Fatalf("unexpected bookmarks: %v", ids)
	}

	on, err = bookmarks.Toggle("user-1", "exam-abc")
	if err != nil || on {
		t.Fatalf("second toggle should remove: on=%v err=%v", on, err)
	}

	ids, err = bookmarks.List("user-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty bookmarks, got %v", ids)
	}
}

func TestSuggestedDates(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.December, 26, 12, 0, 0, 0, time.UTC)

	suggestions := SuggestedDates("2024-12-31", now)
	if len(suggestions) != 2 {
		t.Fatalf("expected week-before to be dropped as past, got %d suggestions", len(suggestions))
	}
	if suggestions[0].Label != "3 days before" || suggestions[1].Label != "1 day before" {
		t.Fatalf("unexpected labels: %+v", suggestions)
	}
	for _, s := range suggestions {
		if s.Date.Hour() != 9 {
			t.Fatalf("suggestions should land at 09:00, got %v", s.Date)
		}
		if !s.Date.After(now) {
			t.Fatalf("suggestion must be in the future: %v", s.Date)
		}
	}

	if got := SuggestedDates("not a date", now); got != nil {
		t.Fatalf("unparseable deadline must yield nothing, got %+v", got)
	}
}
