package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rollbackYes bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback <target-project-id>",
	Short: "Delete a migrated project and its collaborations",
	Long:  "Hard-deletes the target project and every collaboration under it. Effect data and daily stats live inside the collaboration documents and go with them.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !rollbackYes {
			fmt.Printf("delete target project %s and all its collaborations? [y/N] ", args[0])
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("aborted")
				return nil
			}
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		result, err := env.Pipeline.RollbackMigration(ctx, args[0])
		if err != nil {
			return err
		}

		zap.L().Info("rollback complete",
			zap.Int64("deletedProject", result.DeletedProject),
			zap.Int64("deletedCollaborations", result.DeletedCollaborations),
		)
		return printJSON(result)
	},
}

func init() {
	rollbackCmd.Flags().BoolVarP(&rollbackYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(rollbackCmd)
}
