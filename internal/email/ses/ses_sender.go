package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"abstractdesk/internal/port"
)

// API is the subset of the SES v2 client used by the sender.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      API
	fromAddress string
	fromName    string
	replyTo     string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, replyTo string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewSESSenderWithClient(sesv2.NewFromConfig(cfg), fromAddress, fromName, replyTo), nil
}

// NewSESSenderWithClient wraps an existing SES client.
func NewSESSenderWithClient(client API, fromAddress, fromName, replyTo string) port.EmailSender {
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		replyTo:     replyTo,
	}
}

func (s *sesSender) Send(ctx context.Context, msg port.EmailMessage) (*port.SendResult, error) {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.HTML},
					Text: &types.Content{Data: &msg.Text},
				},
			},
		},
	}
	if s.replyTo != "" {
		input.ReplyToAddresses = []string{s.replyTo}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("SES SendEmail: %w", err)
	}
	res := &port.SendResult{}
	if out != nil && out.MessageId != nil {
		res.MessageID = *out.MessageId
	}
	return res, nil
}
