package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <source-project-id>",
	Short: "Show phase run history for a legacy project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		entries, err := env.Pipeline.History(ctx, args[0])
		if err != nil {
			return err
		}

		if statusJSON {
			return printJSON(entries)
		}

		fmt.Printf("%-16s %-10s %-20s %s\n", "PHASE", "STATUS", "STARTED", "DETAIL")
		for _, e := range entries {
			detail := e.Error
			if detail == "" && e.Counts != nil {
				detail = fmt.Sprintf("%v", e.Counts)
			}
			fmt.Printf("%-16s %-10s %-20s %s\n",
				e.Phase, e.Status, e.StartedAt.Format(time.RFC3339), detail)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(statusCmd)
}
