package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/erp/installments/internal/infrastructure/config"
	"github.com/erp/installments/internal/infrastructure/logger"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operator tools for the installments ledger",
	Long: `ledgerctl runs one-off maintenance against the ledger database.

Configuration is read the same way as the server: config.toml, .env and
LEDGER_* environment variables.`,
	SilenceUsage: true,
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// env is the shared runtime of every subcommand
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

// openEnv loads config and connects to the database. The caller closes it.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database, log, persistence.DatabaseOptions{
		LogLevel: gormlogger.Warn,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.log.Error("Error closing database", zap.Error(err))
	}
	_ = e.log.Sync()
}

// withEnv adapts a command body that needs a connected env
func withEnv(run func(ctx context.Context, cmd *cobra.Command, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := logger.WithActor(cmd.Context(), "ledgerctl")
		return run(ctx, cmd, e)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
