package source

import (
	"context"
	"fmt"
	"log/slog"

	"examnova/internal/domain"
	"examnova/internal/ports"
)

// Provider serves the current job list: the aggregator API when it answers
// with data, otherwise the static corpus file. Remote failures are logged
// and never surfaced to callers.
type Provider struct {
	remote ports.JobSource
	corpus ports.CorpusStore
	logger *slog.Logger
}

// NewProvider wires the remote source (may be nil when unconfigured) and the
// corpus fallback.
func NewProvider(remote ports.JobSource, corpus ports.CorpusStore, log *slog.Logger) *Provider {
	return &Provider{remote: remote, corpus: corpus, logger: log}
}

// Jobs returns the freshest job list available.
func (p *Provider) Jobs(ctx context.Context) ([]domain.JobRecord, error) {
	if p.remote != nil {
		jobs, err := p.remote.FetchLatest(ctx)
		switch {
		case err != nil:
			p.warn("aggregator fetch failed, falling back to corpus", "error", err)
		case len(jobs) == 0:
			p.warn("aggregator returned no listings, falling back to corpus")
		default:
			return jobs, nil
		}
	}

	jobs, err := p.corpus.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus fallback: %w", err)
	}

	return jobs, nil
}

func (p *Provider) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
