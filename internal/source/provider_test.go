package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"examnova/internal/config"
	"examnova/internal/domain"
)

type stubCorpus struct {
	jobs []domain.JobRecord
	err  error
}

func (s *stubCorpus) Save([]domain.JobRecord) error     { return nil }
func (s *stubCorpus) Load() ([]domain.JobRecord, error) { return s.jobs, s.err }

func TestAggregatorSendsRapidAPIHeaders(t *testing.T) {
	t.Parallel()

	var gotKey, gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		_, _ = w.Write([]byte(`[{"name":"SSC CGL 2024","posts":500,"deadline":"31 Dec 2024","applyLink":"https://example.test/apply"}]`))
	}))
	defer server.Close()

	client := NewAggregatorClient(config.SourceConfig{
		URL:     server.URL,
		APIKey:  "secret",
		APIHost: "sarkari-result.p.rapidapi.com",
	})
	client.client = server.Client()

	jobs, err := client.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("FetchLatest error: %v", err)
	}

	if gotKey != "secret" || gotHost != "sarkari-result.p.rapidapi.com" {
		t.Fatalf("missing RapidAPI headers: key=%q host=%q", gotKey, gotHost)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(jobs))
	}
	if jobs[0].Title != "SSC CGL 2024" {
		t.Fatalf("name synonym not mapped: %q", jobs[0].Title)
	}
	if jobs[0].Vacancies != "500" {
		t.Fatalf("numeric posts field not mapped: %q", jobs[0].Vacancies)
	}
	if jobs[0].ImportantDates.LastDate != "31 Dec 2024" {
		t.Fatalf("deadline synonym not mapped: %q", jobs[0].ImportantDates.LastDate)
	}
}

func TestAggregatorRejectsNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewAggregatorClient(config.SourceConfig{URL: server.URL, APIKey: "k", APIHost: "h"})
	client.client = server.Client()

	if _, err := client.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestProviderFallsBackToCorpusOnRemoteError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	remote := NewAggregatorClient(config.SourceConfig{URL: server.URL, APIKey: "k", APIHost: "h"})
	remote.client = server.Client()

	corpus := &stubCorpus{jobs: []domain.JobRecord{{Title: "fallback", URL: "u"}}}
	provider := NewProvider(remote, corpus, nil)

	jobs, err := provider.Jobs(context.Background())
	if err != nil {
		t.Fatalf("remote failure must not propagate, got %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "fallback" {
		t.Fatalf("expected corpus fallback, got %+v", jobs)
	}
}

func TestProviderFallsBackOnEmptyRemoteResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	remote := NewAggregatorClient(config.SourceConfig{URL: server.URL, APIKey: "k", APIHost: "h"})
	remote.client = server.Client()

	corpus := &stubCorpus{jobs: []domain.JobRecord{{Title: "fallback", URL: "u"}}}
	provider := NewProvider(remote, corpus, nil)

	jobs, err := provider.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "fallback" {
		t.Fatalf("expected corpus fallback for empty result, got %+v", jobs)
	}
}

func TestProviderWithoutRemoteUsesCorpus(t *testing.T) {
	t.Parallel()

	corpus := &stubCorpus{jobs: []domain.JobRecord{{Title: "static", URL: "u"}}}
	provider := NewProvider(nil, corpus, nil)

	jobs, err := provider.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "static" {
		t.Fatalf("unexpected result: %+v", jobs)
	}
}

func TestProviderPropagatesCorpusError(t *testing.T) {
	t.Parallel()

	corpus := &stubCorpus{err: errors.New("no corpus")}
	provider := NewProvider(nil, corpus, nil)

	if _, err := provider.Jobs(context.Background()); err == nil {
		t.Fatal("expected error when both sources are unavailable")
	}
}
