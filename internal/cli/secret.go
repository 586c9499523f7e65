package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/sanction"
)

// NewSecretCommand creates the secret command, which encrypts a token
// secret for use as auth.secretURL.
func NewSecretCommand(_ *RootOptions) *cobra.Command {
	var secretURL, key, value string
	cmd := &cobra.Command{
		Use:          "secret",
		Short:        "Encrypt and store a token secret",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sanction.StoreSecret(cmd.Context(), secretURL, key, []byte(value)); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "secret stored at %s\n", secretURL)
			return err
		},
	}
	cmd.Flags().StringVar(&secretURL, "url", "", "destination URL")
	cmd.Flags().StringVar(&key, "key", "blowfish://default", "encryption key")
	cmd.Flags().StringVar(&value, "value", "", "secret value")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
