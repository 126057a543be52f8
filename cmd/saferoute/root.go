package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/pkg/config"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "saferoute",
	Short: "Score routes by how safe they are",
	Long: `Scores candidate routes against a catalog of high-risk, low-light and
crowded zones. Routes come from the Google Directions API or a JSON file;
zones come from the built-in catalog, a GeoJSON file or Postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load("saferoute-cli")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// Logs go to stderr so stdout stays machine-readable.
		slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, "text"))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
