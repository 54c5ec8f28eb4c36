package accounts

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	accountssvc "github.com/chris/freelance-credit-ledger/pkg/accounts"
	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/respond"
	"github.com/chris/freelance-credit-ledger/pkg/mapping"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service is what the account handlers need.
type Service interface {
	Register(ctx context.Context, reg accountssvc.Registration) (*models.Account, error)
	Get(ctx context.Context, accountID string) (*models.Account, error)
	UpdateProfile(ctx context.Context, accountID string, upd accountssvc.ProfileUpdate) (*models.Account, error)
	SearchFreelancers(ctx context.Context, query string) ([]models.Account, error)
	Projects(ctx context.Context, accountID string) ([]models.Project, error)
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Service Service
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(svc Service, m *metrics.Metrics, logger *slog.Logger) *AccountsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountsHandler{Service: svc, Metrics: m, Logger: logger}
}

// RegisterAccount creates a client or freelancer account.
func (h *AccountsHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var in api.NewAccount
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	start := time.Now()
	account, err := h.Service.Register(r.Context(), mapping.ToDomainRegistration(&in))
	h.Metrics.ObserveOperation("register_account", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiAccount(account))
}

// GetAccount returns a single account.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	account, err := h.Service.Get(r.Context(), accountId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}

// UpdateAccount edits names, username and the kind-specific profile.
func (h *AccountsHandler) UpdateAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	var in api.ProfileEdit
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	start := time.Now()
	account, err := h.Service.UpdateProfile(r.Context(), accountId.String(), mapping.ToDomainProfileUpdate(&in))
	h.Metrics.ObserveOperation("update_account", start, err)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}

// ListAccountProjects returns the projects an account is linked to.
func (h *AccountsHandler) ListAccountProjects(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID) {
	projects, err := h.Service.Projects(r.Context(), accountId.String())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	apiProjects := make([]*api.Project, len(projects))
	for i := range projects {
		apiProjects[i] = mapping.ToApiProject(&projects[i])
	}
	respond.JSON(w, http.StatusOK, apiProjects)
}

// SearchFreelancers filters freelancers by a case-insensitive name match.
func (h *AccountsHandler) SearchFreelancers(w http.ResponseWriter, r *http.Request, params api.SearchFreelancersParams) {
	var q string
	if params.Q != nil {
		q = *params.Q
	}

	found, err := h.Service.SearchFreelancers(r.Context(), q)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	apiAccounts := make([]*api.Account, len(found))
	for i := range found {
		apiAccounts[i] = mapping.ToApiAccount(&found[i])
	}
	respond.JSON(w, http.StatusOK, apiAccounts)
}
