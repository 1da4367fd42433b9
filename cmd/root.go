package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"gopact/internal/logging"
)

const version = "0.2.0"

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:               "gopact",
		Short:             "Chainweb Pact client for token and cross-chain transfers",
		Long:              `A CLI for Kadena Chainweb operations: same-chain and cross-chain transfers, transaction polling, SPV proofs, local queries and key management.`,
		DisableAutoGenTag: true,
		Version:           version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logging.SetLevel(logging.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().String("network", "testnet04", "network id (mainnet01 or testnet04)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newTransferCmd())
	rootCmd.AddCommand(newXTransferCmd())
	rootCmd.AddCommand(newPollCmd())
	rootCmd.AddCommand(newListenCmd())
	rootCmd.AddCommand(newSPVCmd())
	rootCmd.AddCommand(newLocalCmd())
	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newKeysCmd())

	return rootCmd.ExecuteContext(ctx)
}
