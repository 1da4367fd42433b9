package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"gopact/internal/chainweb"
	"gopact/internal/crypto"
	"gopact/internal/errors"
)

const requestTimeout = 30 * time.Second

func networkOf(cmd *cobra.Command) string {
	network, _ := cmd.Flags().GetString("network")
	return network
}

// senderKeyFromFlags resolves the signing key: an explicit --secret flag
// wins, otherwise GOPACT_SECRET_KEY is consulted.
func senderKeyFromFlags(cmd *cobra.Command) (crypto.KeyPair, error) {
	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv("GOPACT_SECRET_KEY")
	}
	if secret == "" {
		return crypto.KeyPair{}, errors.Validation("no secret key: pass --secret or set GOPACT_SECRET_KEY")
	}
	return crypto.RestoreKeyPair(secret)
}

// confirmSubmission asks before a live submission unless --yes was given.
func confirmSubmission(cmd *cobra.Command, summary string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}

	fmt.Println(summary)
	prompt := promptui.Select{
		Label: "Submit this transaction",
		Items: []string{"Yes", "No"},
	}
	_, answer, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrEOF || err == promptui.ErrInterrupt {
			return false, nil
		}
		return false, err
	}
	return answer == "Yes", nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}

func newNode() *chainweb.Client {
	return chainweb.NewClient(requestTimeout)
}
