package cli

import (
	"github.com/spf13/cobra"
)

func newPropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "property <id>",
		Short: "Show a property and its location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("property", args[0])
			if err != nil {
				return err
			}

			p, err := newAPIClient().GetProperty(id)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(p)
			}
			printEnrichedProperty(p)
			return nil
		},
	}
}
