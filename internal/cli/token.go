package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Issue a bearer token for a subject",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := rootOpts.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close(cmd.Context()) }()
			token, err := srv.Tokens().Issue(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (account id)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
