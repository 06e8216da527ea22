package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "funnel-cli",
	Short: "Recruitment funnel analytics",
	Long:  "Deduplicates recruitment applications into unique candidates, classifies each through the hiring funnel, and reports conversion and source analytics.",
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
