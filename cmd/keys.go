package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopact/internal/crypto"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Key pair utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh ed25519 key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := crypto.GenKeyPair()
			if err != nil {
				return err
			}
			fmt.Printf("public:  %s\nsecret:  %s\naccount: k:%s\n", kp.PublicKey, kp.SecretKey, kp.PublicKey)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <secret-key>",
		Short: "Derive the public key from a secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := crypto.RestoreKeyPair(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("public:  %s\naccount: k:%s\n", kp.PublicKey, kp.PublicKey)
			return nil
		},
	})

	return cmd
}
