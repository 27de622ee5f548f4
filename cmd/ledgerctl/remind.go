package main

import (
	"context"
	"time"

	"github.com/erp/installments/internal/application/reminder"
	"github.com/erp/installments/internal/infrastructure/notification"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send reminders for overdue installment plans once",
	Example: `  # List overdue plans without sending anything
  ledgerctl remind --dry-run

  ledgerctl remind`,
	RunE: withEnv(runRemind),
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().Bool("dry-run", false, "List due plans without sending")
}

func runRemind(ctx context.Context, cmd *cobra.Command, e *env) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	svc := reminder.NewService(
		persistence.NewGormInstallmentRepository(e.db.DB),
		persistence.NewGormCustomerRepository(e.db.DB),
		notification.NewChannels(e.cfg.Notify),
		reminder.Options{
			BatchSize: e.cfg.Reminder.BatchSize,
			Language:  language.Make(e.cfg.Printing.Language),
		},
	)

	now := time.Now()
	if dryRun {
		due, _, err := svc.FindDue(ctx, now)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), due)
	}
	result, err := svc.Run(ctx, now)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
