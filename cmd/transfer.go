package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"gopact/internal/chainweb"
	"gopact/internal/logging"
	"gopact/internal/pact"
)

func newTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tokens between two accounts on one chain",
		RunE:  runTransfer,
	}

	cmd.Flags().String("token", "coin", "token contract (coin or namespace.module)")
	cmd.Flags().String("sender", "", "sender account")
	cmd.Flags().String("receiver", "", "receiver account")
	cmd.Flags().String("receiver-key", "", "receiver public key (hex)")
	cmd.Flags().Float64("amount", 0, "amount to transfer")
	cmd.Flags().String("chain", "0", "chain id")
	cmd.Flags().String("secret", "", "sender secret key (hex); falls back to GOPACT_SECRET_KEY")
	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	cmd.Flags().Bool("nonce-uuid", false, "use a random uuid nonce instead of a timestamp")
	cmd.Flags().Bool("open", false, "open the block explorer page for the request key")
	_ = cmd.MarkFlagRequired("sender")
	_ = cmd.MarkFlagRequired("receiver")
	_ = cmd.MarkFlagRequired("receiver-key")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTransfer(cmd *cobra.Command, args []string) error {
	network := networkOf(cmd)
	token, _ := cmd.Flags().GetString("token")
	sender, _ := cmd.Flags().GetString("sender")
	receiver, _ := cmd.Flags().GetString("receiver")
	receiverKey, _ := cmd.Flags().GetString("receiver-key")
	amount, _ := cmd.Flags().GetFloat64("amount")
	chainID, _ := cmd.Flags().GetString("chain")

	senderKey, err := senderKeyFromFlags(cmd)
	if err != nil {
		return err
	}

	host, err := chainweb.APIHost(network, chainID)
	if err != nil {
		return err
	}

	builder := pact.NewBuilder()
	if useUUID, _ := cmd.Flags().GetBool("nonce-uuid"); useUUID {
		builder.Nonce = pact.UUIDNonce
	}

	signed, err := builder.BuildTokenTransfer(token, sender, receiver, receiverKey,
		amount, pact.SigningKey{KeyPair: senderKey}, chainID, network)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Transfer %v %s\n  from %s\n  to   %s\n  on %s chain %s",
		amount, token, sender, receiver, network, chainID)
	ok, err := confirmSubmission(cmd, summary)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	res, err := newNode().Send(cmd.Context(), host, signed)
	if err != nil {
		return err
	}
	printJSON(res)

	if open, _ := cmd.Flags().GetBool("open"); open {
		if keys := chainweb.RequestKeysOf(res); len(keys) > 0 {
			if url := chainweb.ExplorerTxURL(network, keys[0]); url != "" {
				if err := browser.OpenURL(url); err != nil {
					logging.Warn("could not open browser: %v", err)
				}
			}
		}
	}
	return nil
}
