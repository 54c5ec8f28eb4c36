// Package accounts registers clients and freelancers and answers the lookups
// the HTTP layer needs around them.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/events"
	"github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	minPasswordLength = 8
	projectFetchLimit = 8
)

type Repository interface {
	storage.Reader
	storage.AccountReader
	storage.Transactor
}

// Registration is the input to Register. Exactly one of Client and
// Freelancer is used, chosen by Kind.
type Registration struct {
	Kind           models.AccountKind
	Email          string
	Username       string
	FirstName      string
	LastName       string
	Password       string
	InitialCredits int64
	Client         *models.ClientProfile
	Freelancer     *models.FreelancerProfile
}

// ProfileUpdate lists the editable profile fields. Nil fields are left as
// they are. Client and freelancer fields only apply to that kind. Email,
// credits and the reference lists cannot be changed here.
type ProfileUpdate struct {
	Username  *string
	FirstName *string
	LastName  *string

	CompanyName *string
	Category    *string

	Skills     *[]string
	Experience *string
}

type Service struct {
	repo      Repository
	hasher    Hasher
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func New(repo Repository, hasher Hasher, publisher events.Publisher, logger *slog.Logger) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account. Initial credits are booked as an
// opening_balance transaction in the same unit of work, so the new balance
// is backed by the ledger from the start. Emails are unique per kind.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.Account, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.NewString(),
		Kind:         reg.Kind,
		Email:        email,
		Username:     strings.TrimSpace(reg.Username),
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch reg.Kind {
	case models.KindClient:
		account.Client = &models.ClientProfile{}
		if reg.Client != nil {
			*account.Client = *reg.Client
		}
	case models.KindFreelancer:
		account.Freelancer = &models.FreelancerProfile{}
		if reg.Freelancer != nil {
			account.Freelancer.Skills = append([]string(nil), reg.Freelancer.Skills...)
			account.Freelancer.Experience = reg.Freelancer.Experience
		}
	}

	// The email key serialises registrations of the same address on stores
	// that lock; elsewhere the check is best effort.
	emailKey := "email:" + string(reg.Kind) + ":" + email
	var registered *models.Account
	err = s.repo.Transaction(ctx, []string{account.ID, emailKey}, func(ctx context.Context, tx storage.Tx) error {
		if _, err := s.repo.FindAccount(ctx, reg.Kind, email); err == nil {
			return apperr.Validation("a %s with email %s already exists", reg.Kind, email)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		registered = account.Clone()
		if err := tx.SaveAccount(ctx, registered); err != nil {
			return err
		}
		if reg.InitialCredits == 0 {
			return nil
		}
		_, err := ledger.Apply(ctx, tx, ledger.Entry{
			AccountID: registered.ID,
			Amount:    reg.InitialCredits,
			Reason:    models.ReasonOpeningBalance,
		}, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register %s %s: %w", reg.Kind, email, err)
	}

	events.Notify(ctx, s.logger, s.publisher,
		events.New(events.AccountRegistered, registered.ID, now).
			WithAccount(registered.ID, registered.Credits).
			WithStatus(string(registered.Kind)))
	s.logger.InfoContext(ctx, "account registered", "account_id", registered.ID, "kind", registered.Kind)
	return registered, nil
}

// UpdateProfile applies upd to the account's names and kind-specific
// profile.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, upd ProfileUpdate) (*models.Account, error) {
	if upd.Username != nil && strings.TrimSpace(*upd.Username) == "" {
		return nil, apperr.Validation("username is required")
	}

	var updated *models.Account
	err := s.repo.Transaction(ctx, []string{accountID}, func(ctx context.Context, tx storage.Tx) error {
		account, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if err := applyProfile(account, upd); err != nil {
			return err
		}
		account.UpdatedAt = s.now()
		updated = account
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	events.Notify(ctx, s.logger, s.publisher,
		events.New(events.AccountUpdated, accountID, updated.UpdatedAt).WithStatus(string(updated.Kind)))
	return updated, nil
}

func applyProfile(a *models.Account, upd ProfileUpdate) error {
	clientFields := upd.CompanyName != nil || upd.Category != nil
	freelancerFields := upd.Skills != nil || upd.Experience != nil
	if clientFields && !a.IsClient() {
		return apperr.Validation("account %s is not a client", a.ID)
	}
	if freelancerFields && !a.IsFreelancer() {
		return apperr.Validation("account %s is not a freelancer", a.ID)
	}

	if upd.Username != nil {
		a.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.FirstName != nil {
		a.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		a.LastName = strings.TrimSpace(*upd.LastName)
	}

	if clientFields {
		if a.Client == nil {
			a.Client = &models.ClientProfile{}
		}
		if upd.CompanyName != nil {
			a.Client.CompanyName = *upd.CompanyName
		}
		if upd.Category != nil {
			a.Client.Category = *upd.Category
		}
	}
	if freelancerFields {
		if a.Freelancer == nil {
			a.Freelancer = &models.FreelancerProfile{}
		}
		if upd.Skills != nil {
			a.Freelancer.Skills = append([]string(nil), *upd.Skills...)
		}
		if upd.Experience != nil {
			a.Freelancer.Experience = *upd.Experience
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repo.GetAccount(ctx, accountID)
}

// Lookup resolves an account by kind and email.
func (s *Service) Lookup(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown account kind %q", kind)
	}
	return s.repo.FindAccount(ctx, kind, strings.ToLower(strings.TrimSpace(email)))
}

// SearchFreelancers returns the freelancers whose username, first name or
// last name contains query, ignoring case. An empty query matches everyone.
func (s *Service) SearchFreelancers(ctx context.Context, query string) ([]models.Account, error) {
	all, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Account, 0)
	for _, a := range all {
		if !a.IsFreelancer() {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(a.Username), q) ||
			strings.Contains(strings.ToLower(a.FirstName), q) ||
			strings.Contains(strings.ToLower(a.LastName), q) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Projects fetches every project referenced by the account, in the order
// they were linked.
func (s *Service) Projects(ctx context.Context, accountID string) ([]models.Project, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, len(account.Projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectFetchLimit)
	for i, id := range account.Projects {
		g.Go(func() error {
			p, err := s.repo.GetProject(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to load project %s of account %s: %w", id, accountID, err)
			}
			projects[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return projects, nil
}

func validateRegistration(reg Registration) error {
	if !reg.Kind.Valid() {
		return apperr.Validation("unknown account kind %q", reg.Kind)
	}
	email := strings.TrimSpace(reg.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperr.Validation("a valid email is required")
	}
	if strings.TrimSpace(reg.Username) == "" {
		return apperr.Validation("username is required")
	}
	if len(reg.Password) < minPasswordLength {
		return apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	if reg.InitialCredits < 0 {
		return apperr.Validation("initial credits must not be negative, got %d", reg.InitialCredits)
	}
	return nil
}
