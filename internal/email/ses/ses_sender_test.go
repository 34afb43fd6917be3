package ses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstractdesk/internal/email/ses"
	"abstractdesk/internal/port"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	s := ses.NewSESSenderWithClient(client, "noreply@example.org", "Review Committee", "info@example.org")

	res, err := s.Send(context.Background(), port.EmailMessage{
		To: "p@example.org", Subject: "S", HTML: "<p>h</p>", Text: "t",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.MessageID)
	assert.Equal(t, "Review Committee <noreply@example.org>", *client.input.FromEmailAddress)
	assert.Equal(t, []string{"p@example.org"}, client.input.Destination.ToAddresses)
	assert.Equal(t, []string{"info@example.org"}, client.input.ReplyToAddresses)
	assert.Equal(t, "S", *client.input.Content.Simple.Subject.Data)
}

func TestSESSender_SendError(t *testing.T) {
	s := ses.NewSESSenderWithClient(&fakeSES{err: errors.New("throttled")}, "a@b.c", "", "")
	_, err := s.Send(context.Background(), port.EmailMessage{To: "x@y.z"})
	assert.ErrorContains(t, err, "throttled")
}
