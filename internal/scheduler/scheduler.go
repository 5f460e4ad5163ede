// Package scheduler runs the periodic due-reminder scan. It is an explicit
// service object: the host constructs it with an injected clock and identity
// accessor and owns its lifecycle, instead of a self-starting singleton.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"examnova/internal/delivery"
	"examnova/internal/domain"
	"examnova/internal/ports"
)

const notificationTitle = "Exam Application Reminder"

// Deps wires everything one scheduler instance needs.
type Deps struct {
	Store    ports.ReminderStore
	Notifier ports.Notifier
	Email    ports.EmailSender
	Identity ports.Identity
	Clock    ports.Clock
	Interval time.Duration
	Logger   *slog.Logger
}

// Scheduler scans the current user's reminders on a fixed period and fires
// delivery for every record that is due and not yet notified. Ticks are
// serialized: a tick that is still running causes the next one to be
// skipped, so slow delivery can never double-fire a reminder.
type Scheduler struct {
	store    ports.ReminderStore
	notifier ports.Notifier
	email    ports.EmailSender
	identity ports.Identity
	clock    ports.Clock
	interval time.Duration
	logger   *slog.Logger

	cron     *cron.Cron
	inFlight atomic.Bool
}

// New builds a stopped scheduler. A nil clock means wall time; a
// non-positive interval falls back to one minute.
func New(deps Deps) *Scheduler {
	clock := deps.Clock
	if clock == nil {
		clock = systemClock{}
	}
	interval := deps.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		store:    deps.Store,
		notifier: deps.Notifier,
		email:    deps.Email,
		identity: deps.Identity,
		clock:    clock,
		interval: interval,
		logger:   deps.Logger,
		cron:     cron.New(),
	}
}

// Start registers the periodic scan and runs one immediately, so a reminder
// that came due while the application was closed fires on launch.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %ds", int(s.interval.Seconds()))
	if _, err := s.cron.AddFunc(spec, func() { s.runTick(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.debug("scheduler started", "spec", spec)

	go s.runTick(ctx)
	return nil
}

// Stop halts the periodic scan. A tick already in flight finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.debug("scheduler stopped")
}

// runTick guards against overlapping executions before scanning.
func (s *Scheduler) runTick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.debug("tick skipped, previous still running")
		return
	}
	defer s.inFlight.Store(false)

	s.tick(ctx)
}

// tick performs one scan-and-deliver pass for the current user.
func (s *Scheduler) tick(ctx context.Context) {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		s.debug("no authenticated user, scan skipped")
		return
	}

	records, err := s.store.ListAll(userID)
	if err != nil {
		s.warn("list reminders", "user", userID, "error", err)
		return
	}

	now := s.clock.Now()
	for _, r := range records {
		if !r.Due(now) {
			continue
		}

		deadline := r.Deadline
		if deadline == "" {
			deadline = "TBA"
		}
		body := fmt.Sprintf("Don't forget! Application deadline for %q is approaching on %s", r.ExamTitle, deadline)

		if err := s.notifier.Notify(ctx, notificationTitle, body); err != nil {
			// Leave the flag unset so the next tick retries.
			s.warn("notify reminder", "reminder", r.ID, "error", err)
			continue
		}

		if err := s.store.MarkNotified(userID, r.ID); err != nil {
			s.warn("mark notified", "reminder", r.ID, "error", err)
		}

		if r.Email != "" && !r.EmailSent && s.email != nil {
			s.sendEmail(ctx, userID, r)
		}
	}
}

func (s *Scheduler) sendEmail(ctx context.Context, userID string, r domain.ReminderRecord) {
	if err := s.email.Send(ctx, r); err != nil {
		if errors.Is(err, delivery.ErrChannelUnavailable) {
			s.debug("email channel unavailable", "reminder", r.ID)
		} else {
			s.warn("send reminder email", "reminder", r.ID, "error", err)
		}
		return
	}

	if err := s.store.MarkEmailSent(userID, r.ID); err != nil {
		s.warn("mark email sent", "reminder", r.ID, "error", err)
	}
}

func (s *Scheduler) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Scheduler) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
