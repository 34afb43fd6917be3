package noop

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs each message instead of
// delivering it.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(ctx context.Context, msg port.EmailMessage) (*port.SendResult, error) {
	if msg.To == "" {
		return nil, errors.New("noop: empty recipient")
	}
	id := "noop-" + uuid.NewString()
	logging.LoggerFrom(ctx).Info("noop email",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", id,
	)
	return &port.SendResult{MessageID: id}, nil
}
