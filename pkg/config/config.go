// Package config loads service settings from an optional .env file, an
// optional configs/config.yaml and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	HTTP struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"http"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	DynamoDB struct {
		AccountsTableName     string `mapstructure:"accounts_table_name"`
		ProjectsTableName     string `mapstructure:"projects_table_name"`
		AgreementsTableName   string `mapstructure:"agreements_table_name"`
		ReviewsTableName      string `mapstructure:"reviews_table_name"`
		TransactionsTableName string `mapstructure:"transactions_table_name"`
	} `mapstructure:"dynamodb"`
	Events struct {
		QueueURL string `mapstructure:"queue_url"`
	} `mapstructure:"events"`
	Commands struct {
		QueueURL string `mapstructure:"queue_url"`
	} `mapstructure:"commands"`
	Ledger struct {
		PostingFee     int64 `mapstructure:"posting_fee"`
		ReferralCredit int64 `mapstructure:"referral_credit"`
	} `mapstructure:"ledger"`
	Tx struct {
		LockTimeout time.Duration `mapstructure:"lock_timeout"`
		MaxAttempts int           `mapstructure:"max_attempts"`
		MaxBackoff  time.Duration `mapstructure:"max_backoff"`
	} `mapstructure:"tx"`
	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	Audit struct {
		Concurrency int           `mapstructure:"concurrency"`
		Interval    time.Duration `mapstructure:"interval"`
	} `mapstructure:"audit"`
}

var defaults = map[string]any{
	"http.port":                        8080,
	"log.level":                        "info",
	"storage.driver":                   DriverMemory,
	"dynamodb.accounts_table_name":     "",
	"dynamodb.projects_table_name":     "",
	"dynamodb.agreements_table_name":   "",
	"dynamodb.reviews_table_name":      "",
	"dynamodb.transactions_table_name": "",
	"events.queue_url":                 "",
	"commands.queue_url":               "",
	"ledger.posting_fee":               0,
	"ledger.referral_credit":           10,
	"tx.lock_timeout":                  "2s",
	"tx.max_attempts":                  5,
	"tx.max_backoff":                   "200ms",
	"rate_limit.rps":                   0,
	"rate_limit.burst":                 20,
	"audit.concurrency":                8,
	"audit.interval":                   "0s",
}

// Load reads the configuration. Keys map to environment variables by
// upper-casing and replacing dots with underscores, e.g. tx.lock_timeout is
// TX_LOCK_TIMEOUT.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail later at first use.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
		// Queued commands are applied by another process.
		if c.Commands.QueueURL != "" {
			return errors.New("COMMANDS_QUEUE_URL requires the dynamodb storage driver")
		}
	case DriverDynamoDB:
		d := c.DynamoDB
		if d.AccountsTableName == "" || d.ProjectsTableName == "" || d.AgreementsTableName == "" ||
			d.ReviewsTableName == "" || d.TransactionsTableName == "" {
			return errors.New("one or more DynamoDB table name environment variables are not set")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Ledger.PostingFee < 0 {
		return fmt.Errorf("ledger posting fee must not be negative, got %d", c.Ledger.PostingFee)
	}
	if c.Tx.MaxAttempts < 1 {
		return fmt.Errorf("tx max attempts must be at least 1, got %d", c.Tx.MaxAttempts)
	}
	return nil
}

// SlogLevel maps Log.Level onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
