package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	fmt.Printf("Server:  %s\n", serverURL)

	if err := newAPIClient().Health(); err != nil {
		fmt.Printf("Status:  ✗ unavailable (%v)\n", err)
		return nil
	}

	fmt.Println("Status:  ✓ connected")
	return nil
}
