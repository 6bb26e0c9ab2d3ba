package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <tenant-id> <property-id>",
		Short: "Add a property to a tenant's favorites",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, propertyID, err := parseFavoriteArgs(args)
			if err != nil {
				return err
			}

			t, err := newAPIClient().AddFavorite(tenantID, propertyID)
			if err != nil {
				return fmt.Errorf("adding favorite: %w", err)
			}

			if !isJSON() {
				fmt.Printf("Property #%d added to favorites.\n", propertyID)
			}
			return printTenant(t)
		},
	}
}

func newUnfavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unfavorite <tenant-id> <property-id>",
		Short: "Remove a property from a tenant's favorites",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, propertyID, err := parseFavoriteArgs(args)
			if err != nil {
				return err
			}

			t, err := newAPIClient().RemoveFavorite(tenantID, propertyID)
			if err != nil {
				return fmt.Errorf("removing favorite: %w", err)
			}

			if !isJSON() {
				fmt.Printf("Property #%d removed from favorites.\n", propertyID)
			}
			return printTenant(t)
		},
	}
}

func parseFavoriteArgs(args []string) (int64, int64, error) {
	tenantID, err := parseID("tenant", args[0])
	if err != nil {
		return 0, 0, err
	}
	propertyID, err := parseID("property", args[1])
	if err != nil {
		return 0, 0, err
	}
	return tenantID, propertyID, nil
}
