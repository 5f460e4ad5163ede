// Package app assembles the application from its parts and exposes the
// operations the command layer drives.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"examnova/internal/config"
	"examnova/internal/corpus"
	"examnova/internal/delivery"
	"examnova/internal/domain"
	"examnova/internal/normalize"
	"examnova/internal/ports"
	"examnova/internal/reminder"
	"examnova/internal/scheduler"
	"examnova/internal/scraper"
	"examnova/internal/source"
	"examnova/internal/storage"
)

// Application owns the wired component graph and the storage handle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	kv        *storage.KV
	Reminders *reminder.Store
	Bookmarks *reminder.Bookmarks
	Identity  ports.Identity

	corpus   ports.CorpusStore
	provider *source.Provider
	builder  *scraper.Builder
	notifier ports.Notifier
	email    ports.EmailSender
}

// New wires every component from configuration. The caller owns the
// returned application and must Close it.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	kv, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	corpusStore := corpus.NewFileStore(cfg.Scraper.CorpusPath)

	var remote ports.JobSource
	if cfg.Source.APIKey != "" {
		remote = source.NewAggregatorClient(cfg.Source)
	}

	var primary ports.Notifier
	if cfg.Notifications.WebhookURL != "" {
		primary = delivery.NewWebhookNotifier(cfg.Notifications.WebhookURL)
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		kv:        kv,
		Reminders: reminder.NewStore(kv, nil),
		Bookmarks: reminder.NewBookmarks(kv),
		Identity:  EnvIdentity{},
		corpus:    corpusStore,
		provider:  source.NewProvider(remote, corpusStore, logger.With("component", "source")),
		builder:   scraper.NewBuilder(&http.Client{Timeout: 20 * time.Second}, cfg.Scraper, logger.With("component", "scraper")),
		notifier:  delivery.NewDispatcher(primary, delivery.NewAlertNotifier(nil), logger.With("component", "delivery")),
		email:     delivery.NewEmailSender(cfg.Email),
	}, nil
}

// Close releases the storage handle.
func (a *Application) Close() error {
	return a.kv.Close()
}

// BuildCorpus scrapes the job board and rewrites the corpus file, returning
// the number of postings captured.
func (a *Application) BuildCorpus(ctx context.Context) (int, error) {
	jobs, err := a.builder.Build(ctx)
	if err != nil {
		return 0, fmt.Errorf("build corpus: %w", err)
	}

	if err := a.corpus.Save(jobs); err != nil {
		return 0, fmt.Errorf("save corpus: %w", err)
	}

	a.logger.Info("corpus rebuilt", "jobs", len(jobs), "path", a.cfg.Scraper.CorpusPath)
	return len(jobs), nil
}

// Exams returns the normalized published exam listing, remote-first with
// corpus fallback.
func (a *Application) Exams(ctx context.Context) ([]domain.ExamRecord, error) {
	raw, err := a.provider.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	exams := normalize.Exams(raw)
	published := exams[:0]
	for _, e := range exams {
		if e.Status == domain.StatusPublished {
			published = append(published, e)
		}
	}

	return published, nil
}

// RunScheduler runs the reminder scan until the context is cancelled.
func (a *Application) RunScheduler(ctx context.Context) error {
	s := scheduler.New(scheduler.Deps{
		Store:    a.Reminders,
		Notifier: a.notifier,
		Email:    a.email,
		Identity: a.Identity,
		Interval: a.cfg.Scheduler.Interval(),
		Logger:   a.logger.With("component", "scheduler"),
	})

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	s.Stop()
	return nil
}
