package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"examnova/internal/config"
	"examnova/internal/domain"
	"examnova/internal/ports"
)

// AggregatorClient pulls job listings from the third-party RapidAPI
// aggregator. Responses use near-synonymous field names per attribute; the
// wire type collapses each synonym pair before the record reaches the
// normalizer.
type AggregatorClient struct {
	url     string
	apiKey  string
	apiHost string
	client  *http.Client
}

var _ ports.JobSource = (*AggregatorClient)(nil)

// NewAggregatorClient builds a client from configuration.
func NewAggregatorClient(cfg config.SourceConfig) *AggregatorClient {
	return &AggregatorClient{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchLatest retrieves and maps the aggregator's current listings.
func (c *AggregatorClient) FetchLatest(ctx context.Context) ([]domain.JobRecord, error) {
	if c.apiKey == "" || c.url == "" {
		return nil, fmt.Errorf("aggregator client misconfigured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aggregator returned %s", resp.Status)
	}

	var wire []wireJob
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	jobs := make([]domain.JobRecord, 0, len(wire))
	for _, w := range wire {
		jobs = append(jobs, w.toJobRecord())
	}

	return jobs, nil
}

// wireJob mirrors the aggregator payload. Every attribute appears under one
// of two names depending on the upstream listing source.
type wireJob struct {
	Title               string     `json:"title"`
	Name                string     `json:"name"`
	URL                 string     `json:"url"`
	Organization        string     `json:"organization"`
	Department          string     `json:"department"`
	State               string     `json:"state"`
	Location            string     `json:"location"`
	Category            string     `json:"category"`
	Qualification       string     `json:"qualification"`
	Eligibility         string     `json:"eligibility"`
	ApplicationStart    string     `json:"applicationStart"`
	StartDate           string     `json:"startDate"`
	ApplicationDeadline string     `json:"applicationDeadline"`
	Deadline            string     `json:"deadline"`
	LastDate            string     `json:"lastDate"`
	ExamDate            string     `json:"examDate"`
	TestDate            string     `json:"testDate"`
	ResultDate          string     `json:"resultDate"`
	DeclarationDate     string     `json:"declarationDate"`
	Fee                 string     `json:"fee"`
	ApplicationFee      string     `json:"applicationFee"`
	AgeLimit            string     `json:"ageLimit"`
	Age                 string     `json:"age"`
	Vacancies           flexString `json:"vacancies"`
	Posts               flexString `json:"posts"`
	Description         string     `json:"description"`
	Details             string     `json:"details"`
	NotificationLink    string     `json:"notificationLink"`
	PDFLink             string     `json:"pdfLink"`
	ApplicationLink     string     `json:"applicationLink"`
	ApplyLink           string     `json:"applyLink"`
}

func (w wireJob) toJobRecord() domain.JobRecord {
	var eligibility []string
	if w.Eligibility != "" {
		eligibility = []string{w.Eligibility}
	}

	applyLink := pick(w.ApplicationLink, w.ApplyLink)

	return domain.JobRecord{
		Title:        pick(w.Title, w.Name),
		URL:          pick(w.URL, applyLink, w.NotificationLink),
		Organization: pick(w.Organization, w.Department),
		ImportantDates: domain.ImportantDates{
			StartDate: pick(w.ApplicationStart, w.StartDate),
			LastDate:  pick(w.ApplicationDeadline, w.Deadline, w.LastDate),
		},
		ApplicationFee:   pick(w.Fee, w.ApplicationFee),
		AgeLimit:         pick(w.AgeLimit, w.Age),
		Eligibility:      eligibility,
		Description:      pick(w.Description, w.Details),
		ApplyLink:        applyLink,
		State:            pick(w.State, w.Location),
		Category:         w.Category,
		Qualification:    w.Qualification,
		Vacancies:        pick(string(w.Vacancies), string(w.Posts)),
		ExamDate:         pick(w.ExamDate, w.TestDate),
		ResultDate:       pick(w.ResultDate, w.DeclarationDate),
		NotificationLink: pick(w.NotificationLink, w.PDFLink),
	}
}

// flexString tolerates upstream fields that arrive as either a JSON string
// or a bare number (post counts do both).
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*f = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(raw)
	return nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
