package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/storefront/v1/app"
)

var forceSeed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the baseline catalog",
	Long: `Connect to the configured database and write the baseline catalog.

A populated catalog is left untouched unless --force is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		res, err := app.Seed(cmd.Context(), cfg, forceSeed)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		switch {
		case res.Skipped:
			cmd.Printf("catalog already has %d products, nothing written\n", res.Count)
		default:
			cmd.Printf("seeded %d products\n", res.Count)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&forceSeed, "force", false, "replace a populated catalog")
}
