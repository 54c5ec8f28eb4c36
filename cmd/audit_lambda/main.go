package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/freelance-credit-ledger/pkg/bootstrap"
	"github.com/chris/freelance-credit-ledger/pkg/config"
	"github.com/chris/freelance-credit-ledger/pkg/ledger"
)

var (
	auditor *ledger.Auditor
	logger  *slog.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Driver != config.DriverDynamoDB {
		log.Fatalf("audit lambda needs the %s storage driver, got %q", config.DriverDynamoDB, cfg.Storage.Driver)
	}
	logger = bootstrap.NewLogger(cfg)

	deps, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("failed to build dependencies: %v", err)
	}

	auditor = ledger.NewAuditor(deps.Repo, cfg.Audit.Concurrency, logger)
}

// HandleRequest runs one ledger audit, typically from a schedule. It fails
// only when the audit itself could not run; discrepancies are reported in
// the result.
func HandleRequest(ctx context.Context) (*ledger.AuditReport, error) {
	report, err := auditor.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "ledger audit failed", "error", err)
		return nil, err
	}
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
