package ledger

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/respond"
	creditledger "github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/mapping"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service is what the ledger handlers need.
type Service interface {
	Credit(ctx context.Context, accountID string, amount int64, reason models.Reason) (*creditledger.Result, error)
	Debit(ctx context.Context, accountID string, amount int64, reason models.Reason) (*creditledger.Result, error)
	EarnReferralCredit(ctx context.Context, accountID string) (*creditledger.Result, error)
	EarnReferralCreditOnce(ctx context.Context, accountID, eventID string) (*creditledger.Result, error)
	History(ctx context.Context, accountID string) ([]models.Transaction, error)
	Verify(ctx context.Context, accountID string) (*creditledger.Reconciliation, error)
}

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Service Service
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc Service, m *metrics.Metrics, logger *slog.Logger) *LedgerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerHandler{Service: svc, Metrics: m, Logger: logger}
}

// CreditAccount adds credits to an account.
func (h *LedgerHandler) CreditAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	h.change(w, r, accountId.String(), models.ReasonCredit)
}

// DebitAccount removes credits from an account.
func (h *LedgerHandler) DebitAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	h.change(w, r, accountId.String(), models.ReasonDebit)
}

func (h *LedgerHandler) change(w http.ResponseWriter, r *http.Request, accountID string, reason models.Reason) {
	var in api.AmountChange
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	// Only plain credits and debits can be posted directly; the other
	// reasons belong to lifecycle operations.
	if in.Reason != nil && models.Reason(*in.Reason) != reason {
		respond.Error(w, r, h.Logger, apperr.Validation("reason %q cannot be posted directly", *in.Reason))
		return
	}

	var (
		result *creditledger.Result
		err    error
		start  = time.Now()
	)
	if reason == models.ReasonCredit {
		result, err = h.Service.Credit(r.Context(), accountID, in.Amount, reason)
	} else {
		result, err = h.Service.Debit(r.Context(), accountID, in.Amount, reason)
	}
	h.Metrics.ObserveOperation(string(reason), start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiBalanceChange(result))
}

// EarnReferralCredit pays the referral credit. With an event id in the body
// the credit is paid once per event.
func (h *LedgerHandler) EarnReferralCredit(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	var in api.ReferralCredit
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, r, h.Logger, err)
			return
		}
	}

	var (
		result *creditledger.Result
		err    error
		start  = time.Now()
	)
	if in.EventId != nil && *in.EventId != "" {
		result, err = h.Service.EarnReferralCreditOnce(r.Context(), accountId.String(), *in.EventId)
	} else {
		result, err = h.Service.EarnReferralCredit(r.Context(), accountId.String())
	}
	h.Metrics.ObserveOperation("referral", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiBalanceChange(result))
}

// ListAccountTransactions returns an account's ledger, oldest first.
func (h *LedgerHandler) ListAccountTransactions(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	txns, err := h.Service.History(r.Context(), accountId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	apiTxns := make([]*api.Transaction, len(txns))
	for i := range txns {
		apiTxns[i] = mapping.ToApiTransaction(&txns[i])
	}
	respond.JSON(w, http.StatusOK, apiTxns)
}

// ReconcileAccount compares the stored balance with the ledger sum.
func (h *LedgerHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	rec, err := h.Service.Verify(r.Context(), accountId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiReconciliation(rec))
}
