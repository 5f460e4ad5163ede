package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"examnova/internal/config"
	"examnova/internal/domain"
	"examnova/internal/ports"
)

// ErrChannelUnavailable reports that the email channel has no configured
// provider. Callers must treat it as "not sent", never as success.
var ErrChannelUnavailable = errors.New("email channel unavailable")

// EmailSender posts reminder emails to a transactional-email provider.
type EmailSender struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

var _ ports.EmailSender = (*EmailSender)(nil)

// NewEmailSender builds the sender from configuration; leaving the endpoint
// or API key empty keeps the channel unavailable.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send dispatches one reminder email.
func (s *EmailSender) Send(ctx context.Context, reminder domain.ReminderRecord) error {
	if s.endpoint == "" || s.apiKey == "" {
		return ErrChannelUnavailable
	}
	if reminder.Email == "" {
		return fmt.Errorf("reminder %s has no email address", reminder.ID)
	}

	body, err := json.Marshal(map[string]string{
		"from":    s.from,
		"to":      reminder.Email,
		"subject": fmt.Sprintf("Exam Reminder: %s", reminder.ExamTitle),
		"message": fmt.Sprintf("Don't forget! Application deadline for %q is on %s", reminder.ExamTitle, reminder.Deadline),
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return nil
}
