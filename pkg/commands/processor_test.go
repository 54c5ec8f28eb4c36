package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/commands/mocks"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func record(id, body string) events.SQSMessage {
	return events.SQSMessage{MessageId: id, Body: body}
}

func TestHandleSQSEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		engine := mocks.NewEngine(t)
		p := commands.NewProcessor(engine, metrics.New(), nil)

		engine.On("AssignFreelancer", mock.Anything, "p1", "f1").Return(&lifecycle.Assignment{}, nil).Once()
		engine.On("CompleteProject", mock.Anything, "p2").Return(&lifecycle.Settlement{}, nil).Once()
		engine.On("CancelProject", mock.Anything, "p3").Return(&lifecycle.Settlement{}, nil).Once()
		engine.On("AcceptAgreement", mock.Anything, "a1", "f1").Return(&models.Agreement{}, nil).Once()

		resp, err := p.HandleSQSEvent(ctx, events.SQSEvent{Records: []events.SQSMessage{
			record("m1", `{"action":"assign_freelancer","project_id":"p1","freelancer_id":"f1"}`),
			record("m2", `{"action":"complete_project","project_id":"p2"}`),
			record("m3", `{"action":"cancel_project","project_id":"p3"}`),
			record("m4", `{"action":"accept_agreement","agreement_id":"a1","freelancer_id":"f1"}`),
		}})

		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
	})

	t.Run("Contention is retried", func(t *testing.T) {
		engine := mocks.NewEngine(t)
		p := commands.NewProcessor(engine, nil, nil)

		engine.On("CompleteProject", mock.Anything, "busy").
			Return(nil, fmt.Errorf("failed to complete project busy: %w", apperr.ErrContention)).Once()
		engine.On("CompleteProject", mock.Anything, "down").
			Return(nil, apperr.Persistence("failed to commit", errors.New("throttled"))).Once()
		engine.On("CompleteProject", mock.Anything, "open").
			Return(nil, &apperr.StateError{Entity: "project", ID: "open", Current: "Open", Op: "complete"}).Once()

		resp, err := p.HandleSQSEvent(ctx, events.SQSEvent{Records: []events.SQSMessage{
			record("m1", `{"action":"complete_project","project_id":"busy"}`),
			record("m2", `{"action":"complete_project","project_id":"down"}`),
			record("m3", `{"action":"complete_project","project_id":"open"}`),
		}})

		require.NoError(t, err)
		assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m1"}, {ItemIdentifier: "m2"}}, resp.BatchItemFailures)
	})

	t.Run("Malformed commands are dropped", func(t *testing.T) {
		engine := mocks.NewEngine(t)
		p := commands.NewProcessor(engine, nil, nil)

		resp, err := p.HandleSQSEvent(ctx, events.SQSEvent{Records: []events.SQSMessage{
			record("m1", `not json`),
			record("m2", `{"action":"launch_rocket","project_id":"p1"}`),
			record("m3", `{"action":"assign_freelancer","project_id":"p1"}`),
		}})

		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
		engine.AssertNotCalled(t, "AssignFreelancer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCommandValidate(t *testing.T) {
	cases := []struct {
		name  string
		cmd   commands.Command
		valid bool
	}{
		{"Assign", commands.Command{Action: commands.ActionAssignFreelancer, ProjectID: "p", FreelancerID: "f"}, true},
		{"Assign without freelancer", commands.Command{Action: commands.ActionAssignFreelancer, ProjectID: "p"}, false},
		{"Complete", commands.Command{Action: commands.ActionCompleteProject, ProjectID: "p"}, true},
		{"Cancel without project", commands.Command{Action: commands.ActionCancelProject}, false},
		{"Accept", commands.Command{Action: commands.ActionAcceptAgreement, AgreementID: "a", FreelancerID: "f"}, true},
		{"Accept without agreement", commands.Command{Action: commands.ActionAcceptAgreement, FreelancerID: "f"}, false},
		{"Unknown action", commands.Command{Action: "refund_everything"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}
