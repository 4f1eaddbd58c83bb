package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsJSON bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List legacy projects with their migration state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		overviews, err := env.Pipeline.ListSourceProjects(ctx)
		if err != nil {
			return err
		}

		if projectsJSON {
			return printJSON(overviews)
		}

		fmt.Printf("%-12s %-30s %-10s %-8s %-8s %-8s %s\n",
			"ID", "NAME", "MIGRATED", "COLLABS", "EFFECTS", "DAILY", "TRACKING")
		for _, ov := range overviews {
			migrated := "-"
			if ov.ProjectMigrated {
				migrated = ov.TargetProjectID
			}
			fmt.Printf("%-12s %-30s %-10s %-8d %-8d %-8d %s\n",
				ov.Project.ID, ov.Project.Name, migrated,
				ov.CollaborationCount, ov.EffectCount, ov.DailyStatEntries, ov.TrackingStatus)
		}
		return nil
	},
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(projectsCmd)
}
