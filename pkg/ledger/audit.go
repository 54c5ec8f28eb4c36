package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"golang.org/x/sync/errgroup"
)

const DefaultAuditConcurrency = 8

// AuditRepository is what the Auditor needs from storage.
type AuditRepository interface {
	Repository
	storage.AccountReader
}

// AuditReport summarises one audit run.
type AuditReport struct {
	Checked       int              `json:"checked"`
	Discrepancies []Reconciliation `json:"discrepancies"`
}

// Auditor checks every account's balance against its ledger.
type Auditor struct {
	repo        AuditRepository
	concurrency int
	logger      *slog.Logger
}

// NewAuditor creates an Auditor verifying up to concurrency accounts at once.
func NewAuditor(repo AuditRepository, concurrency int, logger *slog.Logger) *Auditor {
	if concurrency <= 0 {
		concurrency = DefaultAuditConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{repo: repo, concurrency: concurrency, logger: logger}
}

// Run verifies all accounts. An account that looks inconsistent is checked a
// second time before it is reported, since an index read may lag a write that
// committed between the two reads.
func (a *Auditor) Run(ctx context.Context) (*AuditReport, error) {
	accounts, err := a.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for audit: %w", err)
	}

	var (
		mu     sync.Mutex
		report = &AuditReport{Checked: len(accounts)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, account := range accounts {
		id := account.ID
		g.Go(func() error {
			rec, err := verify(gctx, a.repo, id)
			if err != nil {
				return err
			}
			if !rec.Consistent {
				if rec, err = verify(gctx, a.repo, id); err != nil {
					return err
				}
			}
			if rec.Consistent {
				return nil
			}

			a.logger.WarnContext(gctx, "ledger discrepancy",
				"account_id", rec.AccountID,
				"balance", rec.Balance,
				"ledger_sum", rec.LedgerSum)
			mu.Lock()
			report.Discrepancies = append(report.Discrepancies, *rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to audit ledger: %w", err)
	}
	slices.SortFunc(report.Discrepancies, func(x, y Reconciliation) int {
		return strings.Compare(x.AccountID, y.AccountID)
	})

	a.logger.InfoContext(ctx, "ledger audit finished",
		"checked", report.Checked,
		"discrepancies", len(report.Discrepancies))
	return report, nil
}
