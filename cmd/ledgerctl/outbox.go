package main

import (
	"context"
	"fmt"

	"github.com/erp/installments/internal/application/outbox"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Inspect and requeue undelivered events",
}

var outboxStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count outbox entries per status",
	RunE:  withEnv(runOutboxStats),
}

var outboxDeadCmd = &cobra.Command{
	Use:     "dead",
	Short:   "List dead-lettered entries",
	Example: `  ledgerctl outbox dead --page 2 --page-size 50`,
	RunE:    withEnv(runOutboxDead),
}

var outboxRequeueCmd = &cobra.Command{
	Use:   "requeue",
	Short: "Hand dead entries back to the processor",
	Example: `  ledgerctl outbox requeue --id 0b0c6d1e-3c55-4b8e-9f43-5a1f0b1f7c21
  ledgerctl outbox requeue --all`,
	RunE: withEnv(runOutboxRequeue),
}

func init() {
	rootCmd.AddCommand(outboxCmd)
	outboxCmd.AddCommand(outboxStatsCmd, outboxDeadCmd, outboxRequeueCmd)

	outboxDeadCmd.Flags().Int("page", 1, "Page number")
	outboxDeadCmd.Flags().Int("page-size", 20, "Entries per page (max 100)")

	outboxRequeueCmd.Flags().String("id", "", "Outbox entry id")
	outboxRequeueCmd.Flags().Bool("all", false, "Requeue every dead entry")
	outboxRequeueCmd.MarkFlagsMutuallyExclusive("id", "all")
	outboxRequeueCmd.MarkFlagsOneRequired("id", "all")
}

func outboxService(e *env) *outbox.Service {
	return outbox.NewService(event.NewGormOutboxRepository(e.db.DB))
}

func runOutboxStats(ctx context.Context, cmd *cobra.Command, e *env) error {
	stats, err := outboxService(e).Stats(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), stats)
}

func runOutboxDead(ctx context.Context, cmd *cobra.Command, e *env) error {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("page-size")
	result, err := outboxService(e).ListDead(ctx, shared.Filter{Page: page, PageSize: size})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runOutboxRequeue(ctx context.Context, cmd *cobra.Command, e *env) error {
	all, _ := cmd.Flags().GetBool("all")
	svc := outboxService(e)
	if all {
		n, err := svc.RequeueAll(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "requeued %d entries\n", n)
		return err
	}

	raw, _ := cmd.Flags().GetString("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}
	if err := svc.Requeue(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "requeued %s\n", id)
	return err
}
