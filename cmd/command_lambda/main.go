package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/freelance-credit-ledger/pkg/bootstrap"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/config"
	"github.com/chris/freelance-credit-ledger/pkg/lifecycle"
	"github.com/chris/freelance-credit-ledger/pkg/metrics"
)

var processor *commands.Processor

func init() {
	// Initialize dependencies once per container.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Driver != config.DriverDynamoDB {
		log.Fatalf("command lambda needs the %s storage driver, got %q", config.DriverDynamoDB, cfg.Storage.Driver)
	}
	logger := bootstrap.NewLogger(cfg)

	deps, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("failed to build dependencies: %v", err)
	}

	engine := lifecycle.NewEngine(deps.Repo, deps.Publisher, logger, cfg.Ledger.PostingFee)
	processor = commands.NewProcessor(engine, metrics.New(), logger)
}

func main() {
	lambda.Start(processor.HandleSQSEvent)
}
