package storage

import (
	"context"
	"slices"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
)

// Changeset is everything a transaction function staged. Documents carry the
// version they were read at; a Version of 0 marks a new document.
type Changeset struct {
	Accounts     []*models.Account
	Projects     []*models.Project
	Agreements   []*models.Agreement
	Reviews      []*models.Review
	Transactions []*models.Transaction
}

// Len returns the number of writes in the changeset.
func (c *Changeset) Len() int {
	return len(c.Accounts) + len(c.Projects) + len(c.Agreements) + len(c.Reviews) + len(c.Transactions)
}

// Keys returns the ids of every versioned document in the changeset.
func (c *Changeset) Keys() []string {
	keys := make([]string, 0, c.Len())
	for _, a := range c.Accounts {
		keys = append(keys, a.ID)
	}
	for _, p := range c.Projects {
		keys = append(keys, p.ID)
	}
	for _, a := range c.Agreements {
		keys = append(keys, a.ID)
	}
	for _, r := range c.Reviews {
		keys = append(keys, r.ID)
	}
	return keys
}

// committed moves every document to the version it was written at.
func (c *Changeset) committed() {
	for _, a := range c.Accounts {
		a.Version++
	}
	for _, p := range c.Projects {
		p.Version++
	}
	for _, a := range c.Agreements {
		a.Version++
	}
	for _, r := range c.Reviews {
		r.Version++
	}
}

// CommitFunc writes a changeset atomically. It returns ErrConflict when a
// document's stored version no longer matches.
type CommitFunc func(ctx context.Context, cs *Changeset) error

// Run executes fn against a fresh staging scope over base and commits the
// result, re-running on ErrConflict as the policy allows. Backends build
// their Transaction method on it.
func Run(ctx context.Context, base Reader, policy RetryPolicy, fn TxFunc, commit CommitFunc) error {
	return policy.Do(ctx, func(ctx context.Context) error {
		st := NewStaging(base)
		if err := fn(ctx, st); err != nil {
			return err
		}
		cs := st.Changeset()
		if cs.Len() == 0 {
			return nil
		}
		if err := commit(ctx, cs); err != nil {
			return err
		}
		cs.committed()
		return nil
	})
}

type identityMap[T any] struct {
	items map[string]*T
	dirty []string
}

func newIdentityMap[T any]() identityMap[T] {
	return identityMap[T]{items: make(map[string]*T)}
}

func (m *identityMap[T]) load(ctx context.Context, id string, fetch func(context.Context, string) (*T, error)) (*T, error) {
	if v, ok := m.items[id]; ok {
		return v, nil
	}
	v, err := fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	m.items[id] = v
	return v, nil
}

func (m *identityMap[T]) stage(id string, v *T) {
	m.items[id] = v
	if !slices.Contains(m.dirty, id) {
		m.dirty = append(m.dirty, id)
	}
}

func (m *identityMap[T]) changed() []*T {
	out := make([]*T, 0, len(m.dirty))
	for _, id := range m.dirty {
		out = append(out, m.items[id])
	}
	return out
}

// Staging is the unit of work behind a Tx. Reads go to base once per
// document and are cached; writes are collected until Changeset is called.
type Staging struct {
	base         Reader
	accounts     identityMap[models.Account]
	projects     identityMap[models.Project]
	agreements   identityMap[models.Agreement]
	reviews      identityMap[models.Review]
	transactions []*models.Transaction
}

var _ Tx = (*Staging)(nil)

// NewStaging returns an empty scope reading committed documents from base.
// base must hand out copies the scope may mutate.
func NewStaging(base Reader) *Staging {
	return &Staging{
		base:       base,
		accounts:   newIdentityMap[models.Account](),
		projects:   newIdentityMap[models.Project](),
		agreements: newIdentityMap[models.Agreement](),
		reviews:    newIdentityMap[models.Review](),
	}
}

func (s *Staging) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.load(ctx, id, s.base.GetAccount)
}

func (s *Staging) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projects.load(ctx, id, s.base.GetProject)
}

func (s *Staging) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	return s.agreements.load(ctx, id, s.base.GetAgreement)
}

func (s *Staging) GetReview(ctx context.Context, id string) (*models.Review, error) {
	return s.reviews.load(ctx, id, s.base.GetReview)
}

func (s *Staging) SaveAccount(_ context.Context, account *models.Account) error {
	if account == nil || account.ID == "" {
		return apperr.Validation("account id is required")
	}
	s.accounts.stage(account.ID, account)
	return nil
}

func (s *Staging) SaveProject(_ context.Context, project *models.Project) error {
	if project == nil || project.ID == "" {
		return apperr.Validation("project id is required")
	}
	s.projects.stage(project.ID, project)
	return nil
}

func (s *Staging) SaveAgreement(_ context.Context, agreement *models.Agreement) error {
	if agreement == nil || agreement.ID == "" {
		return apperr.Validation("agreement id is required")
	}
	s.agreements.stage(agreement.ID, agreement)
	return nil
}

func (s *Staging) SaveReview(_ context.Context, review *models.Review) error {
	if review == nil || review.ID == "" {
		return apperr.Validation("review id is required")
	}
	s.reviews.stage(review.ID, review)
	return nil
}

func (s *Staging) AppendTransaction(_ context.Context, txn *models.Transaction) error {
	if txn == nil || txn.ID == "" || txn.AccountID == "" {
		return apperr.Validation("transaction id and account id are required")
	}
	s.transactions = append(s.transactions, txn)
	return nil
}

func (s *Staging) AppendToCollection(ctx context.Context, kind EntityKind, entityID, field, refID string) error {
	if refID == "" {
		return apperr.Validation("reference id is required")
	}

	switch kind {
	case EntityAccount:
		account, err := s.GetAccount(ctx, entityID)
		if err != nil {
			return err
		}
		list := account.Collection(field)
		if list == nil {
			return apperr.Validation("account has no collection %q", field)
		}
		if appendRef(list, refID) {
			s.accounts.stage(account.ID, account)
		}
		return nil
	case EntityProject:
		project, err := s.GetProject(ctx, entityID)
		if err != nil {
			return err
		}
		list := project.Collection(field)
		if list == nil {
			return apperr.Validation("project has no collection %q", field)
		}
		if appendRef(list, refID) {
			s.projects.stage(project.ID, project)
		}
		return nil
	default:
		return apperr.Validation("%s documents have no collections", kind)
	}
}

// Changeset returns the staged writes.
func (s *Staging) Changeset() *Changeset {
	return &Changeset{
		Accounts:     s.accounts.changed(),
		Projects:     s.projects.changed(),
		Agreements:   s.agreements.changed(),
		Reviews:      s.reviews.changed(),
		Transactions: slices.Clone(s.transactions),
	}
}

func appendRef(list *[]string, refID string) bool {
	if slices.Contains(*list, refID) {
		return false
	}
	*list = append(*list, refID)
	return true
}
