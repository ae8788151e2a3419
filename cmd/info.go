package cmd

import (
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.controller.HasSession() {
			return internal.ErrNoSession
		}

		meta := app.controller.Metadata()
		fmt.Printf("Session:    %s\n", app.controller.SessionID())
		fmt.Printf("Video:      %s (%.1fs, %dx%d @ %.3g fps, %s)\n",
			app.controller.Filename(), meta.Duration, meta.Width, meta.Height, meta.FPS, meta.Format)
		fmt.Printf("Subtitles:  %d (timeline version %d)\n",
			app.controller.Timeline().Len(), app.controller.Timeline().Version())
		fmt.Printf("Messages:   %d\n", len(app.controller.History()))

		cache := app.controller.Cache()
		fmt.Printf("Artifact:   %s", cache.State())
		if artifact := cache.Artifact(); artifact != nil {
			stale := ""
			if artifact.GeneratedAtVersion != app.controller.Timeline().Version() {
				stale = ", stale"
			}
			fmt.Printf(" (%s %s, version %d%s)", artifact.Kind, artifact.Filename, artifact.GeneratedAtVersion, stale)
		}
		fmt.Println()

		if lastErr := app.controller.LastError(); lastErr != "" {
			internal.PrintWarning(lastErr)
		}

		// Compare against the server's view when it is reachable.
		if remote, err := app.controller.Client().GetVideoInfo(cmd.Context(), app.controller.SessionID()); err == nil {
			fmt.Printf("Server:     %d subtitle(s) on record\n", remote.SubtitleCount)
		} else {
			internal.LogDebug("server info unavailable: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
