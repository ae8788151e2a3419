package cmd

import (
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a preview with subtitles burned in",
	Long: `Ask the service to render the current subtitles into the video and
load the result for playback.

The preview is cached: exporting afterwards without further edits reuses
it instead of rendering again. Any edit invalidates it. Because the
preview has subtitles burned in, the playback overlay is disabled while
it is loaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		artifact, err := app.controller.Preview(cmd.Context())
		app.SaveState()
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Preview ready: %s", artifact.Filename))
		internal.PrintInfo(fmt.Sprintf("Rendered at timeline version %d; `vedit play` shows it without the overlay", artifact.GeneratedAtVersion))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
