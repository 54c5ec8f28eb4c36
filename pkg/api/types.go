// Package api holds the JSON shapes of the HTTP API and the chi router that
// binds its parameters.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// AccountKind defines model for AccountKind.
type AccountKind string

const (
	AccountKindClient     AccountKind = "client"
	AccountKindFreelancer AccountKind = "freelancer"
)

// NewAccount defines model for NewAccount.
type NewAccount struct {
	Kind           AccountKind         `json:"kind"`
	Email          openapi_types.Email `json:"email"`
	Username       string              `json:"username"`
	FirstName      *string             `json:"first_name,omitempty"`
	LastName       *string             `json:"last_name,omitempty"`
	Password       string              `json:"password"`
	InitialCredits *int64              `json:"initial_credits,omitempty"`

	CompanyName *string   `json:"company_name,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Experience  *string   `json:"experience,omitempty"`
}

// ProfileEdit defines model for ProfileEdit.
type ProfileEdit struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`

	CompanyName *string   `json:"company_name,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Experience  *string   `json:"experience,omitempty"`
}

// Account defines model for Account.
type Account struct {
	Id                 string              `json:"id"`
	Kind               AccountKind         `json:"kind"`
	Email              openapi_types.Email `json:"email"`
	Username           string              `json:"username"`
	FirstName          string              `json:"first_name"`
	LastName           string              `json:"last_name"`
	Credits            int64               `json:"credits"`
	CompanyName        *string             `json:"company_name,omitempty"`
	Category           *string             `json:"category,omitempty"`
	Skills             *[]string           `json:"skills,omitempty"`
	Experience         *string             `json:"experience,omitempty"`
	Earnings           *int64              `json:"earnings,omitempty"`
	Projects           []string            `json:"projects"`
	Agreements         []string            `json:"agreements"`
	Reviews            []string            `json:"reviews"`
	AppliedProjects    []string            `json:"applied_projects"`
	TransactionHistory []string            `json:"transaction_history"`
	Version            int64               `json:"version"`
	CreatedAt          time.Time           `json:"created_at"`
}

// Transaction defines model for Transaction.
type Transaction struct {
	Id        string    `json:"id"`
	AccountId string    `json:"account_id"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	ProjectId *string   `json:"project_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AmountChange is the body of credit and debit requests.
type AmountChange struct {
	Amount int64   `json:"amount"`
	Reason *string `json:"reason,omitempty"`
}

// ReferralCredit is the optional body of a referral request. With an event
// id the credit is paid at most once per event.
type ReferralCredit struct {
	EventId *string `json:"event_id,omitempty"`
}

// BalanceChange defines model for BalanceChange.
type BalanceChange struct {
	Transaction Transaction `json:"transaction"`
	Balance     int64       `json:"balance"`
}

// Reconciliation defines model for Reconciliation.
type Reconciliation struct {
	AccountId    string `json:"account_id"`
	Balance      int64  `json:"balance"`
	LedgerSum    int64  `json:"ledger_sum"`
	Transactions int    `json:"transactions"`
	Consistent   bool   `json:"consistent"`
}

// NewProject defines model for NewProject.
type NewProject struct {
	ClientId    string              `json:"client_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Budget      int64               `json:"budget"`
	Deadline    *openapi_types.Date `json:"deadline,omitempty"`
	Categories  *[]string           `json:"categories,omitempty"`
}

// ProjectEdit defines model for ProjectEdit.
type ProjectEdit struct {
	ClientId    string              `json:"client_id"`
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Budget      *int64              `json:"budget,omitempty"`
	Deadline    *openapi_types.Date `json:"deadline,omitempty"`
	Categories  *[]string           `json:"categories,omitempty"`
}

// Escrow defines model for Escrow.
type Escrow struct {
	TransactionId string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

// Project defines model for Project.
type Project struct {
	Id           string              `json:"id"`
	ClientId     string              `json:"client_id"`
	FreelancerId *string             `json:"freelancer_id,omitempty"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Budget       int64               `json:"budget"`
	Deadline     *openapi_types.Date `json:"deadline,omitempty"`
	Categories   []string            `json:"categories"`
	Status       string              `json:"status"`
	AgreementId  *string             `json:"agreement_id,omitempty"`
	Escrow       *Escrow             `json:"escrow,omitempty"`
	Applicants   []string            `json:"applicants"`
	Reviews      []string            `json:"reviews"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Posting defines model for Posting.
type Posting struct {
	Project Project      `json:"project"`
	Fee     *Transaction `json:"fee,omitempty"`
}

// FreelancerRef names the freelancer an assign, apply or accept request acts for.
type FreelancerRef struct {
	FreelancerId string `json:"freelancer_id"`
}

// Agreement defines model for Agreement.
type Agreement struct {
	Id           string    `json:"id"`
	ClientId     string    `json:"client_id"`
	FreelancerId string    `json:"freelancer_id"`
	ProjectId    string    `json:"project_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Assignment defines model for Assignment.
type Assignment struct {
	Project       Project     `json:"project"`
	Agreement     Agreement   `json:"agreement"`
	Escrow        Transaction `json:"escrow"`
	ClientBalance int64       `json:"client_balance"`
}

// Settlement defines model for Settlement.
type Settlement struct {
	Project     Project      `json:"project"`
	Agreement   *Agreement   `json:"agreement,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// Queued is returned with 202 when a lifecycle command was enqueued instead
// of applied.
type Queued struct {
	Status    string `json:"status"`
	Action    string `json:"action"`
	ProjectId string `json:"project_id"`
}

// NewReview defines model for NewReview.
type NewReview struct {
	ReviewerId string  `json:"reviewer_id"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment,omitempty"`
}

// ReviewEdit defines model for ReviewEdit.
type ReviewEdit struct {
	EditorId string  `json:"editor_id"`
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment,omitempty"`
}

// Review defines model for Review.
type Review struct {
	Id           string      `json:"id"`
	Rating       int         `json:"rating"`
	Comment      string      `json:"comment"`
	ReviewerId   string      `json:"reviewer_id"`
	ReviewerKind AccountKind `json:"reviewer_kind"`
	FreelancerId string      `json:"freelancer_id"`
	ProjectId    *string     `json:"project_id,omitempty"`
	Version      int64       `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ReviewList defines model for ReviewList.
type ReviewList struct {
	Reviews []Review `json:"reviews"`
	Count   int      `json:"count"`
	Average float64  `json:"average"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// SearchFreelancersParams defines parameters for SearchFreelancers.
type SearchFreelancersParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// LifecycleParams defines parameters for the assign, complete and cancel
// operations.
type LifecycleParams struct {
	// Async enqueues the operation on the commands queue and returns 202.
	Async *bool `form:"async,omitempty" json:"async,omitempty"`
}
