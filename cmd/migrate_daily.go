package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/model"
)

var migrateDailyTracking string

var migrateDailyCmd = &cobra.Command{
	Use:   "daily <source-project-id>",
	Short: "Migrate per-day stats onto migrated collaborations",
	Long:  "Copies raw view counts and solution notes. Derived cost metrics are recomputed by the new system and never migrated. Sets the project tracking status afterwards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.MigrateDailyStats(ctx, args[0], nil, migrateDailyTracking)
		if err != nil {
			return err
		}

		zap.L().Info("daily stats migrated",
			zap.Int("total", result.TotalSourceRecords),
			zap.Int("migrated", result.MigratedCount),
			zap.Int("skipped", result.SkippedCount),
			zap.String("range", result.StartDate+".."+result.EndDate),
		)
		return printJSON(result)
	},
}

func init() {
	migrateDailyCmd.Flags().StringVar(&migrateDailyTracking, "tracking", model.TrackingArchived, "tracking status to set on the target project (active, archived, disabled)")
	migrateCmd.AddCommand(migrateDailyCmd)
}
