package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/migrate"
	"github.com/kolmedia/talentsync/internal/report"
)

var (
	exportTarget string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <source-project-id>",
	Short: "Export a reconciliation workbook for finance sign-off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		reconciliation, err := env.Pipeline.ValidateMigration(ctx, args[0], exportTarget)
		if err != nil {
			return err
		}
		targetProject, err := env.Stores.Target().GetProject(ctx, exportTarget)
		if err != nil {
			return err
		}
		if targetProject == nil {
			return &migrate.NotFoundError{Kind: "target project", ID: exportTarget}
		}
		collabs, err := env.Stores.Target().ListCollaborations(ctx, exportTarget)
		if err != nil {
			return err
		}

		wb := report.Workbook{
			SourceProjectID: args[0],
			TargetProject:   targetProject,
			Reconciliation:  reconciliation,
			Collaborations:  collabs,
		}
		if err := report.Write(wb, exportOut); err != nil {
			return eris.Wrap(err, "export report")
		}

		zap.L().Info("report exported",
			zap.String("path", exportOut),
			zap.Bool("allMatch", reconciliation.AllMatch),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTarget, "target", "", "target project id (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "migration-report.xlsx", "output workbook path")
	_ = exportCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(exportCmd)
}
