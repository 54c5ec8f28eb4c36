package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/accounts"
	"github.com/chris/freelance-credit-ledger/pkg/bootstrap"
	"github.com/chris/freelance-credit-ledger/pkg/config"
	"github.com/chris/freelance-credit-ledger/pkg/handlers"
	"github.com/chris/freelance-credit-ledger/pkg/ledger"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
	"github.com/chris/freelance-credit-ledger/pkg/middleware"
	"github.com/chris/freelance-credit-ledger/pkg/reviews"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := bootstrap.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	h := handlers.NewApiHandler(handlers.Services{
		Accounts: accounts.New(deps.Repo, accounts.BcryptHasher{}, deps.Publisher, logger),
		Ledger:   ledger.New(deps.Repo, deps.Publisher, logger, cfg.Ledger.ReferralCredit),
		Engine:   lifecycle.NewEngine(deps.Repo, deps.Publisher, logger, cfg.Ledger.PostingFee),
		Reviews:  reviews.New(deps.Repo, deps.Publisher, logger),
		Commands: deps.Commands,
	}, m, logger)

	if cfg.Audit.Interval > 0 {
		auditor := ledger.NewAuditor(deps.Repo, cfg.Audit.Concurrency, logger)
		go runAudits(ctx, auditor, m, cfg.Audit.Interval, logger)
	}

	opts := handlers.RouterOptions{Logger: logger, Metrics: m}
	if cfg.RateLimit.RPS > 0 {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		opts.RateLimiter.StartCleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handlers.NewRouter(h, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runAudits audits the ledger every interval and exports the discrepancy
// count until ctx is done.
func runAudits(ctx context.Context, auditor *ledger.Auditor, m *metrics.Metrics, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := auditor.Run(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "ledger audit failed", "error", err)
				continue
			}
			m.SetAuditDiscrepancies(len(report.Discrepancies))
		}
	}
}
