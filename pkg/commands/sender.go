package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Sender enqueues a command for asynchronous processing.
type Sender interface {
	Send(ctx context.Context, cmd Command) error
}

// SQSAPI is the subset of the SQS client the sender uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSender implements the Sender interface using AWS SQS.
type SQSSender struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSSender creates a new SQSSender.
func NewSQSSender(client SQSAPI, queueURL string) *SQSSender {
	return &SQSSender{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Sender = (*SQSSender)(nil)

// Send validates the command and sends it to the queue. Commands for the
// same project share a message group, so FIFO queues apply them in order.
func (s *SQSSender) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command for SQS: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	}
	if group := cmd.ProjectID; group != "" && strings.HasSuffix(s.QueueURL, ".fifo") {
		input.MessageGroupId = aws.String(group)
	}

	if _, err := s.Client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send command to SQS: %w", err)
	}
	return nil
}

