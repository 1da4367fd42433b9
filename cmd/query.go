package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopact/internal/chainweb"
	"gopact/internal/pact"
)

func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll <request-key> [request-key...]",
		Short: "Query transaction results without blocking",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString("chain")
			host, err := chainweb.APIHost(networkOf(cmd), chainID)
			if err != nil {
				return err
			}
			res, err := newNode().Poll(cmd.Context(), host, args)
			if err != nil {
				return err
			}
			if len(res) == 0 {
				fmt.Println("No results yet.")
				return nil
			}
			printJSON(res)
			return nil
		},
	}
	cmd.Flags().String("chain", "0", "chain id")
	return cmd
}

func newListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen <request-key>",
		Short: "Block until a transaction has a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString("chain")
			host, err := chainweb.APIHost(networkOf(cmd), chainID)
			if err != nil {
				return err
			}
			res, err := newNode().Listen(cmd.Context(), host, args[0])
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
	cmd.Flags().String("chain", "0", "chain id")
	return cmd
}

func newSPVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spv <request-key>",
		Short: "Fetch a cross-chain SPV proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString("chain")
			targetChain, _ := cmd.Flags().GetString("target-chain")
			host, err := chainweb.APIHost(networkOf(cmd), chainID)
			if err != nil {
				return err
			}
			proof, err := newNode().SPV(cmd.Context(), host, args[0], targetChain)
			if err != nil {
				return err
			}
			fmt.Println(proof)
			return nil
		},
	}
	cmd.Flags().String("chain", "0", "source chain id")
	cmd.Flags().String("target-chain", "", "target chain id the proof is for")
	_ = cmd.MarkFlagRequired("target-chain")
	return cmd
}

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local <pact-code>",
		Short: "Execute Pact code on a node without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString("chain")
			network := networkOf(cmd)
			host, err := chainweb.APIHost(network, chainID)
			if err != nil {
				return err
			}

			signed, err := pact.NewBuilder().BuildLocalExec(args[0], chainID, network)
			if err != nil {
				return err
			}

			var opts chainweb.LocalOptions
			if cmd.Flags().Changed("preflight") {
				preflight, _ := cmd.Flags().GetBool("preflight")
				opts.Preflight = &preflight
			}
			if cmd.Flags().Changed("signature-verification") {
				sv, _ := cmd.Flags().GetBool("signature-verification")
				opts.SignatureVerification = &sv
			}

			res, err := newNode().Local(cmd.Context(), host, signed, &opts)
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
	cmd.Flags().String("chain", "0", "chain id")
	cmd.Flags().Bool("preflight", false, "run the full preflight checks")
	cmd.Flags().Bool("signature-verification", false, "verify signatures during local execution")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <namespace.module>",
		Short: "Show a deployed module's interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, _ := cmd.Flags().GetString("chain")
			network := networkOf(cmd)
			host, err := chainweb.APIHost(network, chainID)
			if err != nil {
				return err
			}
			signed, err := pact.NewBuilder().BuildDescribeModule(args[0], chainID, network)
			if err != nil {
				return err
			}
			res, err := newNode().Local(cmd.Context(), host, signed, nil)
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	}
	cmd.Flags().String("chain", "0", "chain id")
	return cmd
}
