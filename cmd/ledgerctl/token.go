package main

import (
	"fmt"
	"time"

	"github.com/erp/installments/internal/infrastructure/auth"
	"github.com/erp/installments/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an access token with the configured JWT secret",
	Long: `Issues a bearer token for local testing and scripted operations. Production
clients get their tokens from the identity provider.`,
	Example: `  ledgerctl token --user 1 --name ops --ttl 1h`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		name, _ := cmd.Flags().GetString("name")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		verifier, err := auth.NewTokenVerifier(cfg.JWT)
		if err != nil {
			return err
		}
		token, err := verifier.Issue(userID, name, ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("user", "", "User id placed in the token subject")
	tokenCmd.Flags().String("name", "", "Username claim, used as the activity actor")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
