package cmd

import (
	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current session",
	Long: `Discard the current session to start over with a new video.

The server-side session is deleted best-effort; the local session store
is cleared either way. A response still in flight for the old session is
discarded when it arrives, never applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		app.controller.Reset(cmd.Context())
		if err := app.store.Reset(); err != nil {
			return err
		}
		internal.PrintSuccess("Session discarded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
