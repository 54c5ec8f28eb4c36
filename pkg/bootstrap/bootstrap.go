// Package bootstrap builds the shared dependencies of the HTTP server and the
// Lambda entry points from a Config.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/freelance-credit-ledger/pkg/commands"
	"github.com/chris/freelance-credit-ledger/pkg/config"
	"github.com/chris/freelance-credit-ledger/pkg/events"
	"github.com/chris/freelance-credit-ledger/pkg/storage"
	dydbstore "github.com/chris/freelance-credit-ledger/pkg/storage/dynamodb"
	"github.com/chris/freelance-credit-ledger/pkg/storage/memory"
)

// Deps are the wired infrastructure dependencies.
type Deps struct {
	Repo      storage.Repository
	Publisher events.Publisher
	// Commands is nil when no commands queue is configured.
	Commands commands.Sender
}

// NewLogger returns a JSON logger at the configured level and installs it
// as the default.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

// RetryPolicy returns the transaction retry policy from cfg.
func RetryPolicy(cfg *config.Config) storage.RetryPolicy {
	return storage.RetryPolicy{MaxAttempts: cfg.Tx.MaxAttempts, MaxBackoff: cfg.Tx.MaxBackoff}
}

// Build wires storage, the event publisher and the command sender. The AWS
// SDK config is only loaded when something needs it.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, error) {
	needsAWS := cfg.Storage.Driver == config.DriverDynamoDB || cfg.Events.QueueURL != "" || cfg.Commands.QueueURL != ""

	var awsCfg aws.Config
	if needsAWS {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
	}

	deps := &Deps{Publisher: events.NoOpPublisher{}}

	switch cfg.Storage.Driver {
	case config.DriverDynamoDB:
		d := cfg.DynamoDB
		deps.Repo = dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables{
			Accounts:     d.AccountsTableName,
			Projects:     d.ProjectsTableName,
			Agreements:   d.AgreementsTableName,
			Reviews:      d.ReviewsTableName,
			Transactions: d.TransactionsTableName,
		}, RetryPolicy(cfg))
	default:
		deps.Repo = memory.New(cfg.Tx.LockTimeout, RetryPolicy(cfg))
	}
	logger.Info("storage configured", "driver", cfg.Storage.Driver)

	if cfg.Events.QueueURL != "" || cfg.Commands.QueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg)
		if url := cfg.Events.QueueURL; url != "" {
			deps.Publisher = events.NewSQSPublisher(sqsClient, url)
			logger.Info("publishing events to SQS", "queue_url", url)
		}
		if url := cfg.Commands.QueueURL; url != "" {
			deps.Commands = commands.NewSQSSender(sqsClient, url)
			logger.Info("async lifecycle commands enabled", "queue_url", url)
		}
	}

	return deps, nil
}
