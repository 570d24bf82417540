// Package commands implements the storefront CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/storefront/v1/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	envFile string
)

// rootCmd serves when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront API server",
	Long: `Storefront serves the product catalog, search, checkout, orders and
authentication APIs.

The execution mode is detected from the environment. A traditional server
connects, seeds and syncs the search index before it listens, and exits with
status 1 when the database is unreachable. Under AWS Lambda or Vercel the
first request connects and every request waits for the connection.

Use "storefront [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional dotenv file (default: ./.env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}
