package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/storefront/v1/app"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the search index from the catalog",
	Long: `Connect to the configured database, embed every product and upsert the
vectors into Qdrant. Requires QDRANT_ENDPOINT.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.Sync(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		cmd.Println("search index synced")
		return nil
	},
}
