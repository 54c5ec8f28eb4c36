package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
)

// Engine is the part of the lifecycle engine commands drive.
type Engine interface {
	AssignFreelancer(ctx context.Context, projectID, freelancerID string) (*lifecycle.Assignment, error)
	CompleteProject(ctx context.Context, projectID string) (*lifecycle.Settlement, error)
	CancelProject(ctx context.Context, projectID string) (*lifecycle.Settlement, error)
	AcceptAgreement(ctx context.Context, agreementID, freelancerID string) (*models.Agreement, error)
}

var _ Engine = (*lifecycle.Engine)(nil)

// Processor applies commands from an SQS batch.
type Processor struct {
	engine  Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewProcessor(engine Engine, m *metrics.Metrics, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{engine: engine, metrics: m, logger: logger}
}

// HandleSQSEvent applies every record in the batch. Records that failed for a
// transient reason are returned as batch item failures so SQS redelivers only
// those. Malformed commands and rejected operations are logged and dropped:
// redelivery would fail the same way.
func (p *Processor) HandleSQSEvent(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		logger := p.logger.With("message_id", message.MessageId)

		var cmd Command
		if err := json.Unmarshal([]byte(message.Body), &cmd); err != nil {
			logger.ErrorContext(ctx, "dropping malformed command", "error", err)
			continue
		}

		err := p.Handle(ctx, cmd)
		switch {
		case err == nil:
			logger.InfoContext(ctx, "command applied", "action", cmd.Action, "project_id", cmd.ProjectID)
		case transient(err):
			logger.WarnContext(ctx, "command failed, will retry", "action", cmd.Action, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		default:
			logger.ErrorContext(ctx, "command rejected", "action", cmd.Action, "kind", apperr.Kind(err), "error", err)
		}
	}
	return resp, nil
}

// Handle applies a single command.
func (p *Processor) Handle(ctx context.Context, cmd Command) (err error) {
	if err := cmd.Validate(); err != nil {
		return err
	}
	defer func(start time.Time) {
		p.metrics.ObserveOperation(string(cmd.Action), start, err)
	}(time.Now())

	switch cmd.Action {
	case ActionAssignFreelancer:
		_, err = p.engine.AssignFreelancer(ctx, cmd.ProjectID, cmd.FreelancerID)
	case ActionCompleteProject:
		_, err = p.engine.CompleteProject(ctx, cmd.ProjectID)
	case ActionCancelProject:
		_, err = p.engine.CancelProject(ctx, cmd.ProjectID)
	case ActionAcceptAgreement:
		_, err = p.engine.AcceptAgreement(ctx, cmd.AgreementID, cmd.FreelancerID)
	default:
		err = fmt.Errorf("unhandled action %q", cmd.Action)
	}
	return err
}

// transient reports whether redelivering the command could succeed.
func transient(err error) bool {
	return apperr.Retryable(err) ||
		errors.Is(err, apperr.ErrPersistence) ||
		errors.Is(err, context.DeadlineExceeded)
}
