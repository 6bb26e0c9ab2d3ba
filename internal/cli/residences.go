package cli

import (
	"github.com/spf13/cobra"
)

func newResidencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "residences <tenant-id>",
		Short: "List the properties a tenant lives in",
		Long:  "List the properties a tenant currently occupies, with their coordinates.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("tenant", args[0])
			if err != nil {
				return err
			}

			props, err := newAPIClient().Residences(id)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(props)
			}
			return printResidenceTable(props)
		},
	}
}
