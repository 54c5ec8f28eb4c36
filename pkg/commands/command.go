// Package commands carries lifecycle operations over SQS: a sender that
// enqueues them and a processor that applies them from a Lambda.
package commands

import (
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
)

type Action string

const (
	ActionAssignFreelancer Action = "assign_freelancer"
	ActionCompleteProject  Action = "complete_project"
	ActionCancelProject    Action = "cancel_project"
	ActionAcceptAgreement  Action = "accept_agreement"
)

// Command is the message body on the commands queue.
type Command struct {
	Action       Action `json:"action"`
	ProjectID    string `json:"project_id,omitempty"`
	FreelancerID string `json:"freelancer_id,omitempty"`
	AgreementID  string `json:"agreement_id,omitempty"`
}

// Validate checks that the command names a known action and carries the ids
// that action needs.
func (c Command) Validate() error {
	switch c.Action {
	case ActionAssignFreelancer:
		if c.ProjectID == "" || c.FreelancerID == "" {
			return apperr.Validation("%s needs project_id and freelancer_id", c.Action)
		}
	case ActionCompleteProject, ActionCancelProject:
		if c.ProjectID == "" {
			return apperr.Validation("%s needs project_id", c.Action)
		}
	case ActionAcceptAgreement:
		if c.AgreementID == "" || c.FreelancerID == "" {
			return apperr.Validation("%s needs agreement_id and freelancer_id", c.Action)
		}
	default:
		return apperr.Validation("unknown action %q", c.Action)
	}
	return nil
}
