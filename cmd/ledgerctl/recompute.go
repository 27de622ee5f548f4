package main

import (
	"context"
	"errors"

	ledgerapp "github.com/erp/installments/internal/application/ledger"
	"github.com/erp/installments/internal/infrastructure/cache"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild running sums of agent ledgers",
	Long: `Rewalks an agent's financial transactions in id order and rewrites every
sum_amount from zero. Use it after manual data fixes.`,
	Example: `  ledgerctl recompute --agent 42
  ledgerctl recompute --all`,
	RunE: withEnv(runRecompute),
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
	recomputeCmd.Flags().Int64("agent", 0, "Agent id to recompute")
	recomputeCmd.Flags().Bool("all", false, "Recompute every agent with transactions")
	recomputeCmd.MarkFlagsMutuallyExclusive("agent", "all")
	recomputeCmd.MarkFlagsOneRequired("agent", "all")
}

func runRecompute(ctx context.Context, cmd *cobra.Command, e *env) error {
	agentID, _ := cmd.Flags().GetInt64("agent")
	all, _ := cmd.Flags().GetBool("all")

	backends := cache.NewBackends(ctx, e.cfg.Redis, e.log)
	defer backends.Close()

	svc := ledgerapp.NewTransactionService(
		persistence.NewGormLedgerTransactionScope(e.db.DB, nil),
		ledgerapp.Options{Balances: backends.Balances, CacheTTL: e.cfg.Ledger.CacheTTL},
	)

	if all {
		results, err := svc.RecomputeAll(ctx)
		if err != nil {
			return err
		}
		e.log.Info("Recomputed all agents", zap.Int("agents", len(results)))
		return printJSON(cmd.OutOrStdout(), results)
	}
	if agentID <= 0 {
		return errors.New("--agent must be a positive id")
	}
	result, err := svc.RecomputeAgent(ctx, agentID)
	if err != nil {
		return err
	}
	e.log.Info("Recomputed agent", zap.Int64("agent_id", agentID), zap.Int("updated", result.Updated))
	return printJSON(cmd.OutOrStdout(), result)
}
