package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migration phases",
	Long:  "Each phase is independently invokable and safe to re-run: talents, project, collabs, effects, daily.",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
