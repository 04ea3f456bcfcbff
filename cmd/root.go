package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/npidgeon/Heatmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Anonymized coordinate heatmap generator",
	Long:  "Reads a CSV of lat/long coordinates from disk or S3, applies a bounded random jitter for anonymization, and renders a density heatmap over the US boundary as a self-contained HTML file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
