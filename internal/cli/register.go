package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/viant/sanction/model/account"
)

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	registration := &account.Registration{}
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account in the configured storage and print it as JSON.

Use a persistent storage driver; accounts registered against the memory
driver are lost when the command exits.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := rootOpts.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close(cmd.Context()) }()
			created, err := srv.Accounts().RegisterWithRole(cmd.Context(), registration, account.Role(role))
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(created)
		},
	}
	cmd.Flags().StringVar(&registration.Name, "name", "", "account name")
	cmd.Flags().StringVar(&registration.Email, "email", "", "email address")
	cmd.Flags().StringVar(&registration.Phone, "phone", "", "phone number, digits only")
	cmd.Flags().StringVar(&registration.Password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", string(account.RoleAthlete), "role (admin|coach|athlete)")
	for _, name := range []string{"name", "email", "phone", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
