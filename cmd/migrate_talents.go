package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateTalentsCmd = &cobra.Command{
	Use:   "talents <source-project-id>",
	Short: "Validate talent identity matches for a legacy project",
	Long:  "Resolves every talent referenced by the project's collaborations against the redesigned database and reports which ones block migration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.ValidateTalents(ctx, args[0])
		if err != nil {
			return err
		}

		zap.L().Info("talent validation complete",
			zap.Int("matched", len(result.Matched)),
			zap.Int("unmatched", len(result.Unmatched)),
			zap.Bool("canProceed", result.CanProceed),
		)
		if !result.CanProceed {
			for _, u := range result.Unmatched {
				fmt.Printf("unmatched: %s (%s) reason=%s\n", u.SourceTalentID, u.DisplayName, u.Reason)
			}
		}
		return printJSON(result)
	},
}

func init() {
	migrateCmd.AddCommand(migrateTalentsCmd)
}
