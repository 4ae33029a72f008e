// Package mail hands rendered summaries to an external mail sender.
package mail

import (
	"context"
	"log/slog"
)

// Sender accepts a template name and a flat key/value payload.
type Sender interface {
	Send(ctx context.Context, template string, payload map[string]string) error
	Close() error
}

// LogSender logs messages instead of sending them. Used when no broker is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, template string, payload map[string]string) error {
	slog.InfoContext(ctx, "Mail not sent, no broker configured",
		"template", template,
		"to", payload["to_email"],
		"subject", payload["subject"],
	)
	return nil
}

func (LogSender) Close() error { return nil }
