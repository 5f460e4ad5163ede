package ports

import (
	"context"
	"time"

	"examnova/internal/domain"
)

// JobSource pulls raw job records from an upstream provider.
type JobSource interface {
	FetchLatest(ctx context.Context) ([]domain.JobRecord, error)
}

// CorpusStore persists the scraped job corpus as a whole.
type CorpusStore interface {
	Save(jobs []domain.JobRecord) error
	Load() ([]domain.JobRecord, error)
}

// Notifier delivers a fired reminder through one channel.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// EmailSender dispatches a reminder email. Implementations report
// delivery.ErrChannelUnavailable when the channel is not configured.
type EmailSender interface {
	Send(ctx context.Context, reminder domain.ReminderRecord) error
}

// ReminderStore is the slice of the reminder collection the scheduler needs.
type ReminderStore interface {
	ListAll(userID string) ([]domain.ReminderRecord, error)
	MarkNotified(userID, reminderID string) error
	MarkEmailSent(userID, reminderID string) error
}

// Identity resolves the current user. The second return is false when no
// user is authenticated; the scheduler skips its scan in that case.
type Identity interface {
	CurrentUserID() (string, bool)
}

// Clock abstracts time for the scheduler so tests can pin "now".
type Clock interface {
	Now() time.Time
}
