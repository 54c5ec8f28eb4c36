// Package mapping converts between domain models and API shapes.
package mapping

import (
	"slices"

	"github.com/chris/freelance-credit-ledger/pkg/accounts"
	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToDomainRegistration converts an API NewAccount into a Registration. The
// kind-specific fields are only carried over for the matching kind.
func ToDomainRegistration(in *api.NewAccount) accounts.Registration {
	reg := accounts.Registration{
		Kind:           models.AccountKind(in.Kind),
		Email:          string(in.Email),
		Username:       in.Username,
		FirstName:      deref(in.FirstName),
		LastName:       deref(in.LastName),
		Password:       in.Password,
		InitialCredits: deref(in.InitialCredits),
	}
	switch reg.Kind {
	case models.KindClient:
		reg.Client = &models.ClientProfile{CompanyName: deref(in.CompanyName), Category: deref(in.Category)}
	case models.KindFreelancer:
		reg.Freelancer = &models.FreelancerProfile{Experience: deref(in.Experience)}
		if in.Skills != nil {
			reg.Freelancer.Skills = slices.Clone(*in.Skills)
		}
	}
	return reg
}

// ToDomainProfileUpdate converts an API ProfileEdit into a ProfileUpdate.
func ToDomainProfileUpdate(in *api.ProfileEdit) accounts.ProfileUpdate {
	upd := accounts.ProfileUpdate{
		Username:    in.Username,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		CompanyName: in.CompanyName,
		Category:    in.Category,
		Experience:  in.Experience,
	}
	if in.Skills != nil {
		skills := slices.Clone(*in.Skills)
		upd.Skills = &skills
	}
	return upd
}

// ToApiAccount converts a domain Account to an API Account. The password hash
// never leaves the domain.
func ToApiAccount(a *models.Account) *api.Account {
	out := &api.Account{
		Id:                 a.ID,
		Kind:               api.AccountKind(a.Kind),
		Email:              openapi_types.Email(a.Email),
		Username:           a.Username,
		FirstName:          a.FirstName,
		LastName:           a.LastName,
		Credits:            a.Credits,
		Projects:           nonNil(a.Projects),
		Agreements:         nonNil(a.Agreements),
		Reviews:            nonNil(a.Reviews),
		AppliedProjects:    nonNil(a.AppliedProjects),
		TransactionHistory: nonNil(a.TransactionHistory),
		Version:            a.Version,
		CreatedAt:          a.CreatedAt,
	}
	if c := a.Client; c != nil {
		out.CompanyName = ptr(c.CompanyName)
		out.Category = ptr(c.Category)
	}
	if f := a.Freelancer; f != nil {
		skills := nonNil(f.Skills)
		out.Skills = &skills
		out.Experience = ptr(f.Experience)
		out.Earnings = &f.Earnings
	}
	return out
}

func ToApiTransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:        t.ID,
		AccountId: t.AccountID,
		Amount:    t.Amount,
		Reason:    string(t.Reason),
		ProjectId: ptr(t.ProjectID),
		Timestamp: t.Timestamp,
	}
}

func ToApiBalanceChange(r *ledger.Result) *api.BalanceChange {
	return &api.BalanceChange{Transaction: *ToApiTransaction(&r.Transaction), Balance: r.Balance}
}

func ToApiReconciliation(r *ledger.Reconciliation) *api.Reconciliation {
	return &api.Reconciliation{
		AccountId:    r.AccountID,
		Balance:      r.Balance,
		LedgerSum:    r.LedgerSum,
		Transactions: r.Transactions,
		Consistent:   r.Consistent,
	}
}

// ToDomainProjectSpec converts an API NewProject into a ProjectSpec.
func ToDomainProjectSpec(in *api.NewProject) lifecycle.ProjectSpec {
	spec := lifecycle.ProjectSpec{
		Title:       in.Title,
		Description: deref(in.Description),
		Budget:      in.Budget,
	}
	if in.Deadline != nil {
		d := in.Deadline.Time
		spec.Deadline = &d
	}
	if in.Categories != nil {
		spec.Categories = slices.Clone(*in.Categories)
	}
	return spec
}

// ToDomainProjectUpdate converts an API ProjectEdit into a ProjectUpdate.
func ToDomainProjectUpdate(in *api.ProjectEdit) lifecycle.ProjectUpdate {
	upd := lifecycle.ProjectUpdate{
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
	}
	if in.Deadline != nil {
		d := in.Deadline.Time
		upd.Deadline = &d
	}
	if in.Categories != nil {
		categories := slices.Clone(*in.Categories)
		upd.Categories = &categories
	}
	return upd
}

func ToApiProject(p *models.Project) *api.Project {
	out := &api.Project{
		Id:           p.ID,
		ClientId:     p.ClientID,
		FreelancerId: ptr(p.FreelancerID),
		Title:        p.Title,
		Description:  p.Description,
		Budget:       p.Budget,
		Categories:   nonNil(p.Categories),
		Status:       string(p.Status),
		AgreementId:  ptr(p.AgreementID),
		Applicants:   nonNil(p.Applicants),
		Reviews:      nonNil(p.Reviews),
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Deadline != nil {
		out.Deadline = &openapi_types.Date{Time: *p.Deadline}
	}
	if e := p.Escrow; e != nil {
		out.Escrow = &api.Escrow{TransactionId: e.TransactionID, Amount: e.Amount, Status: string(e.Status)}
	}
	return out
}

func ToApiPosting(p *lifecycle.Posting) *api.Posting {
	out := &api.Posting{Project: *ToApiProject(&p.Project)}
	if p.Fee != nil {
		out.Fee = ToApiTransaction(p.Fee)
	}
	return out
}

func ToApiAgreement(a *models.Agreement) *api.Agreement {
	return &api.Agreement{
		Id:           a.ID,
		ClientId:     a.ClientID,
		FreelancerId: a.FreelancerID,
		ProjectId:    a.ProjectID,
		Title:        a.Title,
		Status:       string(a.Status),
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func ToApiAssignment(a *lifecycle.Assignment) *api.Assignment {
	return &api.Assignment{
		Project:       *ToApiProject(&a.Project),
		Agreement:     *ToApiAgreement(&a.Agreement),
		Escrow:        *ToApiTransaction(&a.Escrow),
		ClientBalance: a.ClientBalance,
	}
}

func ToApiSettlement(s *lifecycle.Settlement) *api.Settlement {
	out := &api.Settlement{Project: *ToApiProject(&s.Project)}
	if s.Agreement != nil {
		out.Agreement = ToApiAgreement(s.Agreement)
	}
	if s.Transaction != nil {
		out.Transaction = ToApiTransaction(s.Transaction)
	}
	return out
}

func ToApiReview(r *models.Review) *api.Review {
	return &api.Review{
		Id:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		ReviewerId:   r.ReviewerID,
		ReviewerKind: api.AccountKind(r.ReviewerKind),
		FreelancerId: r.FreelancerID,
		ProjectId:    ptr(r.ProjectID),
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ptr returns nil for the zero value, so optional fields are omitted.
func ptr[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
