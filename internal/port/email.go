package port

import "context"

// EmailMessage is a fully composed outgoing message.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SendResult reports a transport-level acceptance.
type SendResult struct {
	MessageID string
}

// EmailSender is the email transport.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (*SendResult, error)
}
