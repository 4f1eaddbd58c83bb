package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateEffectsCmd = &cobra.Command{
	Use:   "effects <source-project-id>",
	Short: "Migrate aggregate effect metrics onto migrated collaborations",
	Long:  "Joins legacy effect records to target collaborations by provenance or video id. Collaborations that already carry effect data are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.MigrateEffects(ctx, args[0], nil)
		if err != nil {
			return err
		}

		zap.L().Info("effects migrated",
			zap.Int("total", result.TotalSourceRecords),
			zap.Int("updated", result.UpdatedCount),
			zap.Int("skipped", result.SkippedExisting),
			zap.Int("unmatched", result.Unmatched),
		)
		return printJSON(result)
	},
}

func init() {
	migrateCmd.AddCommand(migrateEffectsCmd)
}
