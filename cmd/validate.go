package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateTarget string

var validateCmd = &cobra.Command{
	Use:   "validate <source-project-id>",
	Short: "Reconcile a migrated project against its legacy source",
	Long:  "Read-only comparison of collaboration counts, total amounts, effect coverage and daily stat entries across the two databases.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.ValidateMigration(ctx, args[0], validateTarget)
		if err != nil {
			return err
		}

		if result.AllMatch {
			zap.L().Info("reconciliation passed")
		} else {
			zap.L().Warn("reconciliation found divergence",
				zap.Bool("collaborations", result.Collaborations.Match),
				zap.Bool("totalAmount", result.TotalAmount.Match),
				zap.Bool("dailyStats", result.DailyStats.Match),
			)
		}
		return printJSON(result)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateTarget, "target", "", "target project id (required)")
	_ = validateCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(validateCmd)
}
