package main

import (
	"context"

	activityapp "github.com/erp/installments/internal/application/activity"
	catalogapp "github.com/erp/installments/internal/application/catalog"
	"github.com/erp/installments/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Inspect and restore product prices",
}

var priceRevertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Restore a product's prices from a snapshot version",
	Long: `Copies buy and selling price from snapshot N back onto the product. The
restore itself is recorded as a new snapshot version.`,
	Example: `  ledgerctl price revert --product 7 --version 3`,
	RunE:    withEnv(runPriceRevert),
}

var priceHistoryCmd = &cobra.Command{
	Use:     "history",
	Short:   "List a product's price snapshots",
	Example: `  ledgerctl price history --product 7`,
	RunE:    withEnv(runPriceHistory),
}

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.AddCommand(priceRevertCmd, priceHistoryCmd)

	priceCmd.PersistentFlags().Int64("product", 0, "Product id")
	_ = priceCmd.MarkPersistentFlagRequired("product")
	priceRevertCmd.Flags().Int("version", 0, "Snapshot version to restore")
	_ = priceRevertCmd.MarkFlagRequired("version")
}

func productService(e *env) *catalogapp.ProductService {
	return catalogapp.NewProductService(
		persistence.NewGormCatalogTransactionScope(e.db.DB),
		activityapp.NewService(persistence.NewGormActivityRepository(e.db.DB)),
	)
}

func runPriceRevert(ctx context.Context, cmd *cobra.Command, e *env) error {
	productID, _ := cmd.Flags().GetInt64("product")
	version, _ := cmd.Flags().GetInt("version")

	product, err := productService(e).RevertToSnapshot(ctx, productID, version)
	if err != nil {
		return err
	}
	e.log.Info("Price reverted",
		zap.Int64("product_id", productID),
		zap.Int("from_version", version),
		zap.Int("new_version", product.PriceVersion),
	)
	return printJSON(cmd.OutOrStdout(), product)
}

func runPriceHistory(ctx context.Context, cmd *cobra.Command, e *env) error {
	productID, _ := cmd.Flags().GetInt64("product")
	snapshots, err := productService(e).ListSnapshots(ctx, productID)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), snapshots)
}
