package models

import (
	"slices"
	"time"
)

// AccountKind tags which variant of the Account union a record holds.
type AccountKind string

const (
	KindClient     AccountKind = "client"
	KindFreelancer AccountKind = "freelancer"
)

// Valid reports whether k names a known account variant.
func (k AccountKind) Valid() bool {
	return k == KindClient || k == KindFreelancer
}

// Account collection fields accepted by the repository's AppendToCollection.
const (
	FieldProjects           = "projects"
	FieldAgreements         = "agreements"
	FieldReviews            = "reviews"
	FieldTransactionHistory = "transaction_history"
	FieldAppliedProjects    = "applied_projects"
	FieldReferralEvents     = "referral_events"
)

// ClientProfile holds the fields only clients carry.
type ClientProfile struct {
	CompanyName string `json:"company_name,omitempty" dynamodbav:"company_name,omitempty"`
	Category    string `json:"category,omitempty" dynamodbav:"category,omitempty"`
}

// FreelancerProfile holds the fields only freelancers carry.
type FreelancerProfile struct {
	Skills     []string `json:"skills,omitempty" dynamodbav:"skills,omitempty"`
	Experience string   `json:"experience,omitempty" dynamodbav:"experience,omitempty"`
	// Earnings is the running total of project payments received.
	Earnings int64 `json:"earnings" dynamodbav:"earnings"`
}

// Account is the tagged union Client | Freelancer. Exactly one of Client or
// Freelancer is set, matching Kind.
type Account struct {
	ID           string      `json:"id" dynamodbav:"id"`
	Kind         AccountKind `json:"kind" dynamodbav:"kind"`
	Email        string      `json:"email" dynamodbav:"email"`
	Username     string      `json:"username" dynamodbav:"username"`
	FirstName    string      `json:"first_name" dynamodbav:"first_name"`
	LastName     string      `json:"last_name" dynamodbav:"last_name"`
	PasswordHash string      `json:"-" dynamodbav:"password_hash"`
	Credits      int64       `json:"credits" dynamodbav:"credits"`

	Projects           []string `json:"projects" dynamodbav:"projects"`
	Agreements         []string `json:"agreements" dynamodbav:"agreements"`
	Reviews            []string `json:"reviews" dynamodbav:"reviews"`
	TransactionHistory []string `json:"transaction_history" dynamodbav:"transaction_history"`
	AppliedProjects    []string `json:"applied_projects" dynamodbav:"applied_projects"`
	ReferralEvents     []string `json:"referral_events" dynamodbav:"referral_events"`

	Client     *ClientProfile     `json:"client,omitempty" dynamodbav:"client,omitempty"`
	Freelancer *FreelancerProfile `json:"freelancer,omitempty" dynamodbav:"freelancer,omitempty"`

	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// IsClient reports whether the account is the client variant.
func (a *Account) IsClient() bool { return a.Kind == KindClient }

// IsFreelancer reports whether the account is the freelancer variant.
func (a *Account) IsFreelancer() bool { return a.Kind == KindFreelancer }

// Collection returns a pointer to the named reference list, or nil when the
// field is unknown.
func (a *Account) Collection(field string) *[]string {
	switch field {
	case FieldProjects:
		return &a.Projects
	case FieldAgreements:
		return &a.Agreements
	case FieldReviews:
		return &a.Reviews
	case FieldTransactionHistory:
		return &a.TransactionHistory
	case FieldAppliedProjects:
		return &a.AppliedProjects
	case FieldReferralEvents:
		return &a.ReferralEvents
	default:
		return nil
	}
}

// HasReferralEvent reports whether a referral for eventID was already paid.
func (a *Account) HasReferralEvent(eventID string) bool {
	return slices.Contains(a.ReferralEvents, eventID)
}

// Clone returns a deep copy, so callers can mutate it without touching the
// stored document.
func (a *Account) Clone() *Account {
	c := *a
	c.Projects = slices.Clone(a.Projects)
	c.Agreements = slices.Clone(a.Agreements)
	c.Reviews = slices.Clone(a.Reviews)
	c.TransactionHistory = slices.Clone(a.TransactionHistory)
	c.AppliedProjects = slices.Clone(a.AppliedProjects)
	c.ReferralEvents = slices.Clone(a.ReferralEvents)
	if a.Client != nil {
		p := *a.Client
		c.Client = &p
	}
	if a.Freelancer != nil {
		p := *a.Freelancer
		p.Skills = slices.Clone(a.Freelancer.Skills)
		c.Freelancer = &p
	}
	return &c
}
