package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsBatchLimit is the most entries SendMessageBatch accepts.
const sqsBatchLimit = 10

// SQSAPI is the subset of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// SQSPublisher implements the Publisher interface using AWS SQS.
type SQSPublisher struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Publisher = (*SQSPublisher)(nil)

// Publish sends the events to the queue in batches, tagging each message with
// its event type.
func (p *SQSPublisher) Publish(ctx context.Context, events ...Event) error {
	var errs []error
	for start := 0; start < len(events); start += sqsBatchLimit {
		end := min(start+sqsBatchLimit, len(events))
		if err := p.sendBatch(ctx, events[start:end]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *SQSPublisher) sendBatch(ctx context.Context, batch []Event) error {
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(batch))
	for _, e := range batch {
		// Marshal the event to JSON.
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s for SQS: %w", e.ID, err)
		}
		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String(e.ID),
			MessageBody: aws.String(string(body)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"event_type": {
					DataType:    aws.String("String"),
					StringValue: aws.String(string(e.Type)),
				},
			},
		})
	}

	// Send the batch to SQS.
	out, err := p.Client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(p.QueueURL),
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("failed to send messages to SQS: %w", err)
	}
	if len(out.Failed) > 0 {
		ids := make([]string, 0, len(out.Failed))
		for _, f := range out.Failed {
			ids = append(ids, aws.ToString(f.Id))
		}
		return fmt.Errorf("failed to send %d of %d messages to SQS: %v", len(out.Failed), len(batch), ids)
	}
	return nil
}
