// Package memory is an in-process implementation of storage.Repository.
// Transactions take exclusive per-key locks, and commits additionally check
// document versions, so work that skips a key still cannot overwrite a
// concurrent change.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
)

const DefaultLockTimeout = 2 * time.Second

// Store keeps every document in maps guarded by a single RWMutex. Readers
// always receive copies.
type Store struct {
	LockTimeout time.Duration
	Retry       storage.RetryPolicy

	locks *keyLocks

	mu           sync.RWMutex
	accounts     map[string]*models.Account
	projects     map[string]*models.Project
	agreements   map[string]*models.Agreement
	reviews      map[string]*models.Review
	transactions map[string][]models.Transaction
	txnIDs       map[string]struct{}
}

// New creates an empty Store.
func New(lockTimeout time.Duration, retry storage.RetryPolicy) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		LockTimeout:  lockTimeout,
		Retry:        retry,
		locks:        newKeyLocks(),
		accounts:     make(map[string]*models.Account),
		projects:     make(map[string]*models.Project),
		agreements:   make(map[string]*models.Agreement),
		reviews:      make(map[string]*models.Review),
		transactions: make(map[string][]models.Transaction),
		txnIDs:       make(map[string]struct{}),
	}
}

// Make sure we conform to the interface
var _ storage.Repository = (*Store)(nil)

func (s *Store) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, apperr.NotFound("account", id)
	}
	return a.Clone(), nil
}

func (s *Store) GetProject(_ context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.NotFound("project", id)
	}
	return p.Clone(), nil
}

func (s *Store) GetAgreement(_ context.Context, id string) (*models.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agreements[id]
	if !ok {
		return nil, apperr.NotFound("agreement", id)
	}
	return a.Clone(), nil
}

func (s *Store) GetReview(_ context.Context, id string) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, apperr.NotFound("review", id)
	}
	return r.Clone(), nil
}

// ListAccounts returns every account ordered by creation time.
func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a.Clone())
	}
	slices.SortFunc(out, func(a, b models.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) FindAccount(_ context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Kind == kind && strings.EqualFold(a.Email, email) {
			return a.Clone(), nil
		}
	}
	return nil, apperr.NotFound(string(kind), email)
}

// ListTransactions returns the account's transactions ordered by timestamp,
// ties kept in commit order.
func (s *Store) ListTransactions(_ context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	out := slices.Clone(s.transactions[accountID])
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out, nil
}

func (s *Store) ListReviewsByFreelancer(_ context.Context, freelancerID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.FreelancerID == freelancerID {
			out = append(out, *r.Clone())
		}
	}
	slices.SortFunc(out, func(a, b models.Review) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

// Transaction locks keys, runs fn on a staging scope and commits its changes.
func (s *Store) Transaction(ctx context.Context, keys []string, fn storage.TxFunc) error {
	release, err := s.locks.acquire(ctx, keys, s.LockTimeout)
	if err != nil {
		return err
	}
	defer release()

	return storage.Run(ctx, s, s.Retry, fn, s.commit)
}

func (s *Store) commit(_ context.Context, cs *storage.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before the first write so a conflict leaves no trace.
	for _, a := range cs.Accounts {
		var current int64
		if cur, ok := s.accounts[a.ID]; ok {
			current = cur.Version
		}
		if err := checkVersion("account", a.ID, a.Version, current); err != nil {
			return err
		}
	}
	for _, p := range cs.Projects {
		var current int64
		if cur, ok := s.projects[p.ID]; ok {
			current = cur.Version
		}
		if err := checkVersion("project", p.ID, p.Version, current); err != nil {
			return err
		}
	}
	for _, a := range cs.Agreements {
		var current int64
		if cur, ok := s.agreements[a.ID]; ok {
			current = cur.Version
		}
		if err := checkVersion("agreement", a.ID, a.Version, current); err != nil {
			return err
		}
	}
	for _, r := range cs.Reviews {
		var current int64
		if cur, ok := s.reviews[r.ID]; ok {
			current = cur.Version
		}
		if err := checkVersion("review", r.ID, r.Version, current); err != nil {
			return err
		}
	}
	for _, t := range cs.Transactions {
		if _, ok := s.txnIDs[t.ID]; ok {
			return fmt.Errorf("transaction %s already recorded: %w", t.ID, storage.ErrConflict)
		}
	}

	for _, a := range cs.Accounts {
		c := a.Clone()
		c.Version++
		s.accounts[a.ID] = c
	}
	for _, p := range cs.Projects {
		c := p.Clone()
		c.Version++
		s.projects[p.ID] = c
	}
	for _, a := range cs.Agreements {
		c := a.Clone()
		c.Version++
		s.agreements[a.ID] = c
	}
	for _, r := range cs.Reviews {
		c := r.Clone()
		c.Version++
		s.reviews[r.ID] = c
	}
	for _, t := range cs.Transactions {
		s.transactions[t.AccountID] = append(s.transactions[t.AccountID], *t)
		s.txnIDs[t.ID] = struct{}{}
	}
	return nil
}

func checkVersion(entity, id string, expected, current int64) error {
	if current != expected {
		return fmt.Errorf("%s %s is at version %d, expected %d: %w", entity, id, current, expected, storage.ErrConflict)
	}
	return nil
}
