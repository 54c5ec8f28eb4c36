package models

import "time"

// AgreementStatus is a state of an agreement between client and freelancer.
type AgreementStatus string

const (
	AgreementPending    AgreementStatus = "Pending"
	AgreementActive     AgreementStatus = "Active"
	AgreementCompleted  AgreementStatus = "Completed"
	AgreementTerminated AgreementStatus = "Terminated"
)

// Open reports whether the agreement still binds the two parties.
func (s AgreementStatus) Open() bool {
	return s == AgreementPending || s == AgreementActive
}

// Agreement links a client, a freelancer and a project.
type Agreement struct {
	ID           string          `json:"id" dynamodbav:"id"`
	ClientID     string          `json:"client_id" dynamodbav:"client_id"`
	FreelancerID string          `json:"freelancer_id" dynamodbav:"freelancer_id"`
	ProjectID    string          `json:"project_id" dynamodbav:"project_id"`
	Title        string          `json:"title" dynamodbav:"title"`
	Description  string          `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Status       AgreementStatus `json:"status" dynamodbav:"status"`
	Version      int64           `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time       `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" dynamodbav:"updated_at"`
}

func (a *Agreement) Clone() *Agreement {
	c := *a
	return &c
}
