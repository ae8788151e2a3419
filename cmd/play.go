package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var (
	playFrom   float64
	playVolume float64
	playMute   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play back the session with the subtitle overlay",
	Long: `Run the playhead over the session's media in real time, printing the
active subtitle as it changes.

After 'vedit preview' the loaded media is the server-rendered preview
with subtitles already burned in, so the overlay is suppressed to avoid
doubling them. Editing again returns playback to the original upload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.controller.HasSession() {
			return internal.ErrNoSession
		}

		player := app.controller.Player()
		if playVolume >= 0 {
			if err := player.SetVolume(playVolume); err != nil {
				return err
			}
		}
		if playMute {
			player.ToggleMute()
		}
		if err := player.Seek(playFrom); err != nil {
			return err
		}

		// Print the overlay only when the active cue changes.
		var last string
		app.controller.OnActiveSubtitle(func(t float64, sub *internal.Subtitle) {
			line := internal.RenderOverlay(sub)
			if line == last {
				return
			}
			last = line
			if line == "" {
				fmt.Printf("%s\n", internal.FormatTimecode(t))
			} else {
				fmt.Printf("%s  %s\n", internal.FormatTimecode(t), line)
			}
		})

		if _, err := player.TogglePlay(); err != nil {
			return err
		}

		if !player.OverlayEnabled() {
			internal.PrintInfo("Playing preview artifact; overlay disabled (subtitles are burned in)")
		}
		internal.PrintInfo(fmt.Sprintf("Playing %s from %s (Ctrl-C to stop)",
			app.controller.Filename(), internal.FormatTimecode(playFrom)))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		player.Run(ctx)

		internal.PrintInfo(fmt.Sprintf("Stopped at %s", internal.FormatTimecode(player.CurrentTime())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Float64Var(&playFrom, "from", 0, "Start position in seconds")
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "Volume 0.0-1.0")
	playCmd.Flags().BoolVar(&playMute, "mute", false, "Mute audio")
}
