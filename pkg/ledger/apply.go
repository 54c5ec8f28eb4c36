package ledger

import (
	"context"
	"math"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	"github.com/google/uuid"
)

// Entry is one balance change. Amount is signed: positive credits the
// account, negative debits it.
type Entry struct {
	AccountID string
	Amount    int64
	Reason    models.Reason
	ProjectID string
}

// Apply records entry inside tx: it moves the account balance, appends the
// transaction and links it into the account's history. It is the only path by
// which a balance changes, so the balance always equals the sum of the
// account's transactions.
func Apply(ctx context.Context, tx storage.Tx, entry Entry, at time.Time) (*models.Transaction, error) {
	if entry.Amount == 0 {
		return nil, apperr.Validation("transaction amount must not be zero")
	}
	if !knownReason(entry.Reason) {
		return nil, apperr.Validation("unknown transaction reason %q", entry.Reason)
	}

	account, err := tx.GetAccount(ctx, entry.AccountID)
	if err != nil {
		return nil, err
	}

	if entry.Amount < 0 && account.Credits+entry.Amount < 0 {
		return nil, &apperr.FundsError{AccountID: account.ID, Balance: account.Credits, Requested: -entry.Amount}
	}
	if entry.Amount > 0 && account.Credits > math.MaxInt64-entry.Amount {
		return nil, apperr.Validation("credit of %d would overflow the balance of account %s", entry.Amount, account.ID)
	}

	account.Credits += entry.Amount
	if entry.Reason == models.ReasonProjectPayment && account.Freelancer != nil {
		account.Freelancer.Earnings += entry.Amount
	}
	account.UpdatedAt = at

	txn := &models.Transaction{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Amount:    entry.Amount,
		Reason:    entry.Reason,
		ProjectID: entry.ProjectID,
		Timestamp: at,
	}

	if err := tx.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := tx.AppendTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := tx.AppendToCollection(ctx, storage.EntityAccount, account.ID, models.FieldTransactionHistory, txn.ID); err != nil {
		return nil, err
	}
	return txn, nil
}

func knownReason(r models.Reason) bool {
	switch r {
	case models.ReasonOpeningBalance, models.ReasonCredit, models.ReasonDebit, models.ReasonReferral,
		models.ReasonPostingFee, models.ReasonEscrow, models.ReasonProjectPayment, models.ReasonEscrowRefund:
		return true
	}
	return false
}
