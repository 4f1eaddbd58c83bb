package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/migrate"
)

var migrateCollabsTarget string

var migrateCollabsCmd = &cobra.Command{
	Use:   "collabs <source-project-id>",
	Short: "Migrate a project's collaborations",
	Long:  "Batch-creates target collaborations. Aborts before any write when a talent is unresolved; records are never silently skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.MigrateCollaborations(ctx, args[0], migrateCollabsTarget, nil)
		if err != nil {
			var unmatched *migrate.UnmatchedError
			if errors.As(err, &unmatched) {
				for _, u := range unmatched.Unmatched {
					fmt.Printf("unmatched: %s (%s) reason=%s\n", u.SourceTalentID, u.DisplayName, u.Reason)
				}
			}
			return err
		}

		zap.L().Info("collaborations migrated",
			zap.Int("requested", result.Requested),
			zap.Int("inserted", result.Inserted),
		)
		return printJSON(result)
	},
}

func init() {
	migrateCollabsCmd.Flags().StringVar(&migrateCollabsTarget, "target", "", "target project id (required)")
	_ = migrateCollabsCmd.MarkFlagRequired("target")
	migrateCmd.AddCommand(migrateCollabsCmd)
}
