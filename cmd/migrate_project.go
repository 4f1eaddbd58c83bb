package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateProjectCustomer string

var migrateProjectCmd = &cobra.Command{
	Use:   "project <source-project-id>",
	Short: "Create the target project from a legacy project",
	Long:  "Creates the redesigned project document with pricing snapshot and provenance. Re-running against an already migrated project is a reported no-op.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.MigrateProject(ctx, args[0], migrateProjectCustomer)
		if err != nil {
			return err
		}

		if result.Created {
			zap.L().Info("project migrated",
				zap.String("targetProjectId", result.TargetProjectID),
				zap.String("pricingTier", result.PricingTier),
			)
		} else {
			zap.L().Info("project already migrated",
				zap.String("targetProjectId", result.TargetProjectID),
				zap.String("matchedBy", result.MatchedBy),
			)
		}
		if result.DiscountMismatch {
			zap.L().Warn("legacy discount differs from customer pricing config",
				zap.Float64("sourceDiscount", result.SourceDiscount),
				zap.Float64("discountRate", result.DiscountRate),
			)
		}
		return printJSON(result)
	},
}

func init() {
	migrateProjectCmd.Flags().StringVar(&migrateProjectCustomer, "customer", "", "customer id override (default from the legacy project)")
	migrateCmd.AddCommand(migrateProjectCmd)
}
