// Package ledger keeps per-account credit balances and the append-only log of
// transactions behind them.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/events"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
)

// DefaultReferralCredit is paid per referral when nothing else is configured.
const DefaultReferralCredit int64 = 10

// Repository is what the ledger needs from storage.
type Repository interface {
	storage.Reader
	storage.TransactionReader
	storage.Transactor
}

// Result is the outcome of a balance change.
type Result struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     int64              `json:"balance"`
}

// Reconciliation compares an account's stored balance with its ledger.
type Reconciliation struct {
	AccountID    string `json:"account_id"`
	Balance      int64  `json:"balance"`
	LedgerSum    int64  `json:"ledger_sum"`
	Transactions int    `json:"transactions"`
	Consistent   bool   `json:"consistent"`
}

// Service implements credit, debit and referral operations.
type Service struct {
	repo           Repository
	publisher      events.Publisher
	logger         *slog.Logger
	referralCredit int64
	now            func() time.Time
}

// New creates a ledger Service. A non-positive referralCredit selects
// DefaultReferralCredit.
func New(repo Repository, publisher events.Publisher, logger *slog.Logger, referralCredit int64) *Service {
	if publisher == nil {
		publisher = events.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if referralCredit <= 0 {
		referralCredit = DefaultReferralCredit
	}
	return &Service{
		repo:           repo,
		publisher:      publisher,
		logger:         logger,
		referralCredit: referralCredit,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ReferralCredit returns the amount paid per referral.
func (s *Service) ReferralCredit() int64 { return s.referralCredit }

// Credit adds amount to the account. reason defaults to "credit".
func (s *Service) Credit(ctx context.Context, accountID string, amount int64, reason models.Reason) (*Result, error) {
	if amount <= 0 {
		return nil, apperr.Validation("credit amount must be positive, got %d", amount)
	}
	if reason == "" {
		reason = models.ReasonCredit
	}
	return s.post(ctx, Entry{AccountID: accountID, Amount: amount, Reason: reason}, "")
}

// Debit removes amount from the account. It fails with
// apperr.ErrInsufficientFunds, leaving the balance untouched, when the
// balance is smaller than amount. reason defaults to "debit".
func (s *Service) Debit(ctx context.Context, accountID string, amount int64, reason models.Reason) (*Result, error) {
	if amount <= 0 {
		return nil, apperr.Validation("debit amount must be positive, got %d", amount)
	}
	if reason == "" {
		reason = models.ReasonDebit
	}
	return s.post(ctx, Entry{AccountID: accountID, Amount: -amount, Reason: reason}, "")
}

// EarnReferralCredit pays the fixed referral credit. It does not check
// whether the referral was already paid; see EarnReferralCreditOnce.
func (s *Service) EarnReferralCredit(ctx context.Context, accountID string) (*Result, error) {
	return s.post(ctx, Entry{AccountID: accountID, Amount: s.referralCredit, Reason: models.ReasonReferral}, "")
}

// EarnReferralCreditOnce pays the referral credit for eventID at most once.
// A repeated eventID fails with apperr.ErrInvalidState.
func (s *Service) EarnReferralCreditOnce(ctx context.Context, accountID, eventID string) (*Result, error) {
	if eventID == "" {
		return nil, apperr.Validation("referral event id is required")
	}
	return s.post(ctx, Entry{AccountID: accountID, Amount: s.referralCredit, Reason: models.ReasonReferral}, eventID)
}

func (s *Service) post(ctx context.Context, entry Entry, referralEvent string) (*Result, error) {
	var result Result
	err := s.repo.Transaction(ctx, []string{entry.AccountID}, func(ctx context.Context, tx storage.Tx) error {
		if referralEvent != "" {
			account, err := tx.GetAccount(ctx, entry.AccountID)
			if err != nil {
				return err
			}
			if account.HasReferralEvent(referralEvent) {
				return &apperr.StateError{Entity: "referral", ID: referralEvent, Current: "paid", Op: "pay"}
			}
			if err := tx.AppendToCollection(ctx, storage.EntityAccount, account.ID, models.FieldReferralEvents, referralEvent); err != nil {
				return err
			}
		}

		txn, err := Apply(ctx, tx, entry, s.now())
		if err != nil {
			return err
		}
		account, err := tx.GetAccount(ctx, entry.AccountID)
		if err != nil {
			return err
		}
		result = Result{Transaction: *txn, Balance: account.Credits}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to post %s of %d to account %s: %w", entry.Reason, entry.Amount, entry.AccountID, err)
	}

	evtType := events.LedgerCredited
	if entry.Amount < 0 {
		evtType = events.LedgerDebited
	}
	events.Notify(ctx, s.logger, s.publisher,
		events.New(evtType, result.Transaction.ID, result.Transaction.Timestamp).
			WithAccount(entry.AccountID, entry.Amount).
			WithStatus(string(entry.Reason)))

	s.logger.InfoContext(ctx, "ledger entry posted",
		"account_id", entry.AccountID,
		"transaction_id", result.Transaction.ID,
		"amount", entry.Amount,
		"reason", entry.Reason,
		"balance", result.Balance)
	return &result, nil
}

// Balance returns the account's current credits. It does not block on writers.
func (s *Service) Balance(ctx context.Context, accountID string) (int64, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Credits, nil
}

// History returns the account's transactions, oldest first.
func (s *Service) History(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return txns, nil
}

// Verify recomputes the account's balance from its ledger.
func (s *Service) Verify(ctx context.Context, accountID string) (*Reconciliation, error) {
	return verify(ctx, s.repo, accountID)
}

func verify(ctx context.Context, repo Repository, accountID string) (*Reconciliation, error) {
	account, err := repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txns, err := repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	var sum int64
	for _, t := range txns {
		sum += t.Amount
	}
	return &Reconciliation{
		AccountID:    accountID,
		Balance:      account.Credits,
		LedgerSum:    sum,
		Transactions: len(txns),
		Consistent:   sum == account.Credits && account.Credits >= 0,
	}, nil
}
