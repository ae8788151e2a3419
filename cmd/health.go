package cmd

import (
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the editing service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		client := app.controller.Client()
		if err := client.Health(cmd.Context()); err != nil {
			internal.PrintError(fmt.Sprintf("Service at %s is not healthy: %v", client.BaseURL(), err))
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Service at %s is healthy", client.BaseURL()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
