package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"gopact/internal/chainweb"
	"gopact/internal/config"
	"gopact/internal/crypto"
	"gopact/internal/errors"
	"gopact/internal/logging"
	"gopact/internal/monitor"
	"gopact/internal/pact"
	"gopact/internal/xchain"
)

func newXTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xtransfer",
		Short: "Transfer tokens from one chain to another",
		Long: `Runs the full cross-chain transfer workflow: initiate on the source
chain, wait for confirmation, fetch the SPV proof, complete on the target
chain and wait for the final confirmation. Prints the aggregated result as
JSON; partial artifacts are included even when the workflow fails.`,
		RunE: runXTransfer,
	}

	cmd.Flags().String("token", "coin", "token contract (coin or namespace.module)")
	cmd.Flags().String("sender", "", "sender account")
	cmd.Flags().String("receiver", "", "receiver account")
	cmd.Flags().String("receiver-key", "", "receiver public key (hex)")
	cmd.Flags().Float64("amount", 0, "amount to transfer")
	cmd.Flags().String("source-chain", "", "chain id the transfer originates on")
	cmd.Flags().String("target-chain", "", "chain id the transfer completes on")
	cmd.Flags().String("secret", "", "sender secret key (hex); falls back to GOPACT_SECRET_KEY")
	cmd.Flags().String("receiver-secret", "", "receiver secret key (hex), used to pay gas for the completion")
	cmd.Flags().String("config", "", "workflow tuning YAML file")
	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	cmd.Flags().Bool("nonce-uuid", false, "use random uuid nonces instead of timestamps")
	cmd.Flags().Bool("open", false, "open the block explorer page for the initiating request key")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("receiver-key")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("source-chain")
	_ = cmd.MarkFlagRequired("target-chain")

	return cmd
}

func runXTransfer(cmd *cobra.Command, args []string) error {
	network := networkOf(cmd)
	token, _ := cmd.Flags().GetString("token")
	sender, _ := cmd.Flags().GetString("sender")
	receiver, _ := cmd.Flags().GetString("receiver")
	receiverKeyHex, _ := cmd.Flags().GetString("receiver-key")
	amount, _ := cmd.Flags().GetFloat64("amount")
	sourceChain, _ := cmd.Flags().GetString("source-chain")
	targetChain, _ := cmd.Flags().GetString("target-chain")

	senderKey, err := senderKeyFromFlags(cmd)
	if err != nil {
		return err
	}

	receiverKey := crypto.KeyPair{PublicKey: receiverKeyHex}
	if receiverSecret, _ := cmd.Flags().GetString("receiver-secret"); receiverSecret != "" {
		receiverKey, err = crypto.RestoreKeyPair(receiverSecret)
		if err != nil {
			return err
		}
	}

	wf, err := workflowConfig(cmd)
	if err != nil {
		return err
	}
	vflag, _ := cmd.Flags().GetBool("verbose")
	wf.Verbose = wf.Verbose || vflag

	builder := pact.NewBuilder()
	if useUUID, _ := cmd.Flags().GetBool("nonce-uuid"); useUUID {
		builder.Nonce = pact.UUIDNonce
	}

	workflow, err := xchain.New(newNode(), builder, chainweb.APIHost, wf, nil)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Cross-chain transfer %v %s\n  from %s (chain %s)\n  to   %s (chain %s)\n  on %s",
		amount, token, sender, sourceChain, receiver, targetChain, network)
	ok, err := confirmSubmission(cmd, summary)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	result := workflow.Execute(cmd.Context(), xchain.TransferRequest{
		Token:             token,
		SenderAccount:     sender,
		ReceiverAccount:   receiver,
		ReceiverPublicKey: receiverKeyHex,
		Amount:            amount,
		SourceChainID:     sourceChain,
		TargetChainID:     targetChain,
		NetworkID:         network,
		SenderKey:         senderKey,
		ReceiverKey:       receiverKey,
	})

	fmt.Println(result.JSON())
	monitor.NewFromEnv().NotifyResult(network, result)

	if open, _ := cmd.Flags().GetBool("open"); open && result.RequestKeyInit != "" {
		if url := chainweb.ExplorerTxURL(network, result.RequestKeyInit); url != "" {
			if err := browser.OpenURL(url); err != nil {
				logging.Warn("could not open browser: %v", err)
			}
		}
	}

	if result.Status != xchain.StatusSuccess {
		return errors.New(errors.ErrorTypeInternal,
			fmt.Sprintf("transfer failed in phase %s: %s", result.FailedPhase, result.Error))
	}
	return nil
}

// workflowConfig resolves the tuning knobs: defaults, then the optional
// config file, then XCHAIN_* environment overrides.
func workflowConfig(cmd *cobra.Command) (config.Workflow, error) {
	wf := config.DefaultWorkflow()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadWorkflowFile(path, wf)
		if err != nil {
			return wf, err
		}
		wf = loaded
	}
	return config.ApplyEnvOverrides(wf), nil
}
