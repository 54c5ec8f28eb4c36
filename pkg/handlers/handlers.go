// Package handlers wires the HTTP API onto the account, ledger, project and
// review services.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/freelance-credit-ledger/pkg/api"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/accounts"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/projects"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/respond"
	"github.com/chris/freelance-credit-ledger/pkg/handlers/reviews"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ApiHandler implements the api.ServerInterface by embedding the
// per-resource handlers.
type ApiHandler struct {
	*accounts.AccountsHandler
	*ledger.LedgerHandler
	*projects.ProjectsHandler
	*reviews.ReviewsHandler
}

// Services are the dependencies of the API.
type Services struct {
	Accounts accounts.Service
	Ledger   ledger.Service
	Engine   projects.Engine
	Reviews  reviews.Service
	// Commands enables ?async=true on lifecycle operations. Optional.
	Commands commands.Sender
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(svc Services, m *metrics.Metrics, logger *slog.Logger) *ApiHandler {
	return &ApiHandler{
		AccountsHandler: accounts.NewAccountsHandler(svc.Accounts, m, logger),
		LedgerHandler:   ledger.NewLedgerHandler(svc.Ledger, m, logger),
		ProjectsHandler: projects.NewProjectsHandler(svc.Engine, svc.Commands, m, logger),
		ReviewsHandler:  reviews.NewReviewsHandler(svc.Reviews, m, logger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// RouterOptions configure NewRouter. Zero values disable the optional parts.
type RouterOptions struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
}

// NewRouter mounts the API with the standard middleware stack. /metrics is
// served when Metrics is set.
func NewRouter(si api.ServerInterface, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	// The limiter keys on the peer address, so it runs before RealIP
	// rewrites RemoteAddr from client-supplied headers.
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.Metrics != nil {
			r.Use(opts.Metrics.InstrumentHandler)
		}
		api.HandlerWithOptions(si, api.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: respond.ParamError,
		})
	})

	return r
}
