// Package cli defines the cobra command tree for rental-finder.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-finder/internal/client"
	"github.com/evcraddock/rental-finder/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rf",
		Short:         "Track tenants, their residences and favorite rentals",
		Long:          "A tool to manage rental tenants: the properties they live in, the listings they favorite, and where those properties are.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/rf/rentals.db)")

	root.AddCommand(
		newTenantCmd(),
		newResidencesCmd(),
		newFavoriteCmd(),
		newUnfavoriteCmd(),
		newPropertyCmd(),
		newServeCmd(),
		newSeedCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag, RF_DB_PATH or the default path.
func openDB(envPath string) (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = envPath
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the rental-finder API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// parseID parses a positional ID argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, arg)
	}
	return id, nil
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
