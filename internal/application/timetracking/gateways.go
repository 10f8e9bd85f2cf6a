package timetracking

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity classifies a user notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notifier delivers reminders and alerts to a user. Delivery is best-effort;
// the session engine never blocks or fails an operation because a reminder
// could not be sent.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, severity Severity, title, message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// delivery channel; deployments plug real channels (email, push) behind the
// same interface.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its severity
func (n *LogNotifier) Notify(_ context.Context, userID uuid.UUID, severity Severity, title, message string) {
	fields := []zap.Field{
		zap.String("user_id", userID.String()),
		zap.String("title", title),
		zap.String("message", message),
	}
	switch severity {
	case SeverityWarning:
		n.logger.Warn("User notification", fields...)
	default:
		n.logger.Info("User notification", fields...)
	}
}

var _ Notifier = (*LogNotifier)(nil)
