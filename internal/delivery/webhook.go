package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"examnova/internal/ports"
)

// WebhookNotifier posts reminder notifications to a user-configured webhook
// (desktop notification bridge, chat integration, and the like). An
// unconfigured endpoint refuses every delivery, which the dispatcher routes
// to the alert fallback.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier registers the webhook endpoint.
func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify posts a JSON payload with the notification title and body.
func (n *WebhookNotifier) Notify(ctx context.Context, title, body string) error {
	if n.endpoint == "" {
		return fmt.Errorf("webhook notifier misconfigured")
	}

	payload, err := json.Marshal(map[string]string{
		"title": title,
		"body":  body,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}

	return nil
}
