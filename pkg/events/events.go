// Package events publishes domain events after a ledger or lifecycle change
// has been committed.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened.
type Type string

const (
	ProjectPosted     Type = "project.posted"
	ProjectAssigned   Type = "project.assigned"
	ProjectCompleted  Type = "project.completed"
	ProjectCancelled  Type = "project.cancelled"
	ProjectApplied    Type = "project.applied"
	ProjectUpdated    Type = "project.updated"
	AgreementAccepted Type = "agreement.accepted"
	LedgerCredited    Type = "ledger.credited"
	LedgerDebited     Type = "ledger.debited"
	ReviewSubmitted   Type = "review.submitted"
	AccountRegistered Type = "account.registered"
	AccountUpdated    Type = "account.updated"
)

// Event is the message body sent to subscribers.
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	AccountID   string    `json:"account_id,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// New builds an event with a fresh id.
func New(t Type, aggregateID string, occurredAt time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt,
	}
}

// WithAccount sets the account the event concerns.
func (e Event) WithAccount(accountID string, amount int64) Event {
	e.AccountID = accountID
	e.Amount = amount
	return e
}

// WithStatus sets the resulting entity status.
func (e Event) WithStatus(status string) Event {
	e.Status = status
	return e
}
