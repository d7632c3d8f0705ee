// Package notification provides sink implementations for notification delivery.
package notification

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// LogSink writes notifications to the structured log. It stands in for a real
// delivery channel (SMS, email, push) until one is wired up; operators tail
// the log to see what would have been sent.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log-backed notification sink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the notification. Never returns an error.
func (s *LogSink) Notify(ctx context.Context, n notification.Notification) error {
	fields := []zap.Field{
		zap.String("type", string(n.Type)),
		zap.String("recipient_kind", string(n.Recipient.Kind)),
		zap.String("recipient_id", n.Recipient.ID.String()),
		zap.String("message", n.Message),
	}
	if len(n.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", n.Metadata))
	}
	if n.ExpiresAt != nil {
		fields = append(fields, zap.Time("expires_at", *n.ExpiresAt))
	}

	s.logger.Info("Notification", fields...)
	return nil
}

var _ notification.Sink = (*LogSink)(nil)
