package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-finder/internal/client"
	"github.com/evcraddock/rental-finder/internal/tenant"
)

func newTenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Show and manage tenants",
	}
	cmd.AddCommand(newTenantShowCmd(), newTenantCreateCmd(), newTenantUpdateCmd())
	return cmd
}

func newTenantShowCmd() *cobra.Command {
	var byCognito bool

	cmd := &cobra.Command{
		Use:   "show <id|cognito-id>",
		Short: "Show a tenant and their favorites",
		Long: "Show a tenant by numeric ID, or by external identity when the argument is not a number.\n" +
			"Pass --cognito to look up an external identity that is itself numeric.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()

			var t *tenant.Tenant
			var err error
			id, perr := strconv.ParseInt(args[0], 10, 64)
			if perr == nil && !byCognito {
				t, err = c.GetTenant(id)
			} else {
				t, err = c.GetTenantByCognitoID(args[0])
			}
			if err != nil {
				return err
			}
			return printTenant(t)
		},
	}

	cmd.Flags().BoolVar(&byCognito, "cognito", false, "treat the argument as an external identity")

	return cmd
}

func newTenantCreateCmd() *cobra.Command {
	var req client.NewTenant

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newAPIClient().CreateTenant(req)
			if err != nil {
				return fmt.Errorf("creating tenant: %w", err)
			}
			if !isJSON() {
				fmt.Println("Tenant created.")
			}
			return printTenant(t)
		},
	}

	cmd.Flags().StringVar(&req.CognitoID, "cognito-id", "", "external identity (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
	for _, name := range []string{"cognito-id", "name", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newTenantUpdateCmd() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a tenant's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tenant", args[0])
			if err != nil {
				return err
			}

			var changes client.TenantChanges
			if cmd.Flags().Changed("name") {
				changes.Name = &name
			}
			if cmd.Flags().Changed("email") {
				changes.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				changes.PhoneNumber = &phone
			}
			if changes == (client.TenantChanges{}) {
				return fmt.Errorf("nothing to update: pass --name, --email or --phone")
			}

			t, err := newAPIClient().UpdateTenant(id, changes)
			if err != nil {
				return fmt.Errorf("updating tenant: %w", err)
			}
			return printTenant(t)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")

	return cmd
}
