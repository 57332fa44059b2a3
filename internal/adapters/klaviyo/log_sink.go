package klaviyo

import (
	"context"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/logger"
)

// LogSink stands in for the API when no key is configured. It logs each
// notification and reports success.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.Get().Named("klaviyo")
	}
	return &LogSink{log: l}
}

// Send logs n.
func (s *LogSink) Send(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam: matches worker.Sender
	s.log.Info(ctx, "marketing sink not configured, skipping delivery",
		logger.String("notification_id", n.ID),
		logger.String("event", n.Label()),
		logger.String("user_id", n.UserID),
		logger.Int("properties", len(n.Properties)),
	)
	return nil
}
