package cmd

import (
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <video-file>",
	Short: "Upload a video and start an editing session",
	Long: `Upload a video file to the editing service and start a new session.

Accepted formats: mp4, mov, avi, webm. The previous session, if any, is
replaced. The session identity is issued by the service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.controller.Upload(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		app.SaveState()

		internal.PrintSuccess(fmt.Sprintf("Uploaded %s (session %s)", result.Filename, result.SessionID))
		meta := result.Metadata
		internal.PrintInfo(fmt.Sprintf("%.1fs, %dx%d @ %.3g fps, %s, %d bytes",
			meta.Duration, meta.Width, meta.Height, meta.FPS, meta.Format, meta.Size))

		if result.Silence != nil && result.Silence.HasSilence {
			total := 0.0
			for _, seg := range result.Silence.Segments {
				total += seg.Duration
			}
			internal.PrintInfo(fmt.Sprintf("Detected %d silent segment(s) totaling %.1fs",
				len(result.Silence.Segments), total))
		}

		fmt.Println()
		internal.PrintInfo(`Describe your first edit, e.g. vedit chat "Add 'Hello' from 0 to 5 seconds"`)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
