package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-finder/internal/config"
	"github.com/evcraddock/rental-finder/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo properties and tenants",
		Long:  "Insert a small demo dataset into the local database. Does nothing if it is already present.",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	res, err := seed.Run(cmd.Context(), database)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(res)
	}

	if res.Skipped {
		fmt.Println("Demo data already present.")
		return nil
	}
	fmt.Printf("Seeded %d properties and %d tenants.\n", len(res.Properties), len(res.Tenants))
	for _, t := range res.Tenants {
		fmt.Printf("  Tenant #%d  %s\n", t.ID, t.Name)
	}
	return nil
}
