// Package delivery carries fired reminders to the user: a primary
// notification channel with a synchronous alert fallback, and a
// transactional-email channel that is explicitly unavailable until
// configured.
package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"examnova/internal/ports"
)

// Dispatcher tries the primary notifier and falls back to the alert channel
// when the primary refuses or fails. The fallback carries the same text, so
// a fired reminder always reaches the user one way or the other.
type Dispatcher struct {
	primary  ports.Notifier
	fallback ports.Notifier
	logger   *slog.Logger
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher wires both channels; fallback may be nil to disable it.
func NewDispatcher(primary, fallback ports.Notifier, log *slog.Logger) *Dispatcher {
	return &Dispatcher{primary: primary, fallback: fallback, logger: log}
}

// Notify delivers through the primary channel, then the fallback.
func (d *Dispatcher) Notify(ctx context.Context, title, body string) error {
	if d.primary != nil {
		err := d.primary.Notify(ctx, title, body)
		if err == nil {
			return nil
		}
		if d.logger != nil {
			d.logger.Warn("primary notification failed, using alert fallback", "error", err)
		}
	}

	if d.fallback == nil {
		return fmt.Errorf("no notification channel available")
	}

	return d.fallback.Notify(ctx, title, body)
}

// AlertNotifier writes the notification synchronously to a local stream,
// mirroring the blocking alert the UI falls back to when the platform
// notification permission is denied.
type AlertNotifier struct {
	out io.Writer
}

var _ ports.Notifier = (*AlertNotifier)(nil)

// NewAlertNotifier writes alerts to out; nil means stderr.
func NewAlertNotifier(out io.Writer) *AlertNotifier {
	if out == nil {
		out = os.Stderr
	}
	return &AlertNotifier{out: out}
}

// Notify prints the title and body as one alert block.
func (n *AlertNotifier) Notify(_ context.Context, title, body string) error {
	if _, err := fmt.Fprintf(n.out, "%s\n\n%s\n", title, body); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}
