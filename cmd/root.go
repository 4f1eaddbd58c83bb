package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "talentsync",
	Short: "Legacy campaign migration pipeline",
	Long:  "Migrates influencer campaign projects, collaborations, effect metrics and daily stats from the legacy database into the redesigned one, with reconciliation and rollback.",
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
