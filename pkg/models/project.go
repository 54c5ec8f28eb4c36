package models

import (
	"slices"
	"time"
)

// ProjectStatus is a state of the project lifecycle.
type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "Open"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

// Terminal reports whether no transition leaves s.
func (s ProjectStatus) Terminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// EscrowStatus tracks what happened to the budget debited at assignment.
type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// Escrow records the budget held from the client while a project is in progress.
type Escrow struct {
	TransactionID string       `json:"transaction_id" dynamodbav:"transaction_id"`
	Amount        int64        `json:"amount" dynamodbav:"amount"`
	Status        EscrowStatus `json:"status" dynamodbav:"status"`
}

// Project is owned by a client and references its assigned freelancer.
type Project struct {
	ID           string        `json:"id" dynamodbav:"id"`
	ClientID     string        `json:"client_id" dynamodbav:"client_id"`
	FreelancerID string        `json:"freelancer_id,omitempty" dynamodbav:"freelancer_id,omitempty"`
	Title        string        `json:"title" dynamodbav:"title"`
	Description  string        `json:"description" dynamodbav:"description"`
	Budget       int64         `json:"budget" dynamodbav:"budget"`
	Deadline     *time.Time    `json:"deadline,omitempty" dynamodbav:"deadline,omitempty"`
	Categories   []string      `json:"categories,omitempty" dynamodbav:"categories,omitempty"`
	Status       ProjectStatus `json:"status" dynamodbav:"status"`
	AgreementID  string        `json:"agreement_id,omitempty" dynamodbav:"agreement_id,omitempty"`
	Escrow       *Escrow       `json:"escrow,omitempty" dynamodbav:"escrow,omitempty"`
	Reviews      []string      `json:"reviews" dynamodbav:"reviews"`
	Applicants   []string      `json:"applicants" dynamodbav:"applicants"`
	Version      int64         `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// FieldApplicants lists the freelancers who applied to a project.
const FieldApplicants = "applicants"

// Collection returns a pointer to the named reference list, or nil.
func (p *Project) Collection(field string) *[]string {
	switch field {
	case FieldReviews:
		return &p.Reviews
	case FieldApplicants:
		return &p.Applicants
	default:
		return nil
	}
}

func (p *Project) Clone() *Project {
	c := *p
	c.Categories = slices.Clone(p.Categories)
	c.Reviews = slices.Clone(p.Reviews)
	c.Applicants = slices.Clone(p.Applicants)
	if p.Deadline != nil {
		d := *p.Deadline
		c.Deadline = &d
	}
	if p.Escrow != nil {
		e := *p.Escrow
		c.Escrow = &e
	}
	return &c
}
