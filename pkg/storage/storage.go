package storage

import (
	"context"

	"github.com/chris/freelance-credit-ledger/pkg/models"
)

// EntityKind names a document collection for AppendToCollection.
type EntityKind string

const (
	EntityAccount   EntityKind = "account"
	EntityProject   EntityKind = "project"
	EntityAgreement EntityKind = "agreement"
	EntityReview    EntityKind = "review"
)

// Reader fetches single documents by id. Every getter returns an error
// matching apperr.ErrNotFound when the document does not exist.
type Reader interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetAgreement(ctx context.Context, id string) (*models.Agreement, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
}

// Writer stages changes inside a transaction scope. Nothing is visible to
// other readers until the scope commits.
type Writer interface {
	SaveAccount(ctx context.Context, account *models.Account) error
	SaveProject(ctx context.Context, project *models.Project) error
	SaveAgreement(ctx context.Context, agreement *models.Agreement) error
	SaveReview(ctx context.Context, review *models.Review) error

	// AppendTransaction records a new immutable ledger entry.
	AppendTransaction(ctx context.Context, txn *models.Transaction) error

	// AppendToCollection adds refID to the named reference list of an entity.
	// Appending a reference that is already present is a no-op.
	AppendToCollection(ctx context.Context, kind EntityKind, entityID, field, refID string) error
}

// Tx is the view of the repository handed to a transaction function. Reads
// through a Tx return the scope's working copies, so a document read twice
// is the same pointer.
type Tx interface {
	Reader
	Writer
}

// TxFunc is run inside an atomic update scope. It may be invoked more than
// once when the backend detects a concurrent write, so it must not have side
// effects outside tx.
type TxFunc func(ctx context.Context, tx Tx) error

// Transactor provides the atomic multi-document update scope.
type Transactor interface {
	// Transaction runs fn with exclusive access to the given keys (account and
	// project ids) and commits everything fn staged, or nothing. Failing to
	// obtain the scope in bounded time returns apperr.ErrContention.
	Transaction(ctx context.Context, keys []string, fn TxFunc) error
}

// AccountReader lists and looks up accounts.
type AccountReader interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// FindAccount resolves an account by its kind and email.
	FindAccount(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error)
}

// TransactionReader reads the append-only ledger.
type TransactionReader interface {
	// ListTransactions returns an account's transactions ordered by timestamp ascending.
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// ReviewReader lists reviews.
type ReviewReader interface {
	ListReviewsByFreelancer(ctx context.Context, freelancerID string) ([]models.Review, error)
}

// Repository defines the root interface for the entire data layer.
// Components should depend on the narrower interfaces where they can.
type Repository interface {
	Reader
	AccountReader
	TransactionReader
	ReviewReader
	Transactor
}
