package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var (
	silenceThreshold   string
	silenceMinDuration float64
)

var silenceCmd = &cobra.Command{
	Use:   "silence",
	Short: "Detect silent spans in the session video",
	Long: `Analyze the session's video for silent spans and show them with
timing statistics. Nothing is changed; use 'vedit silence remove' to cut
the spans out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		report, err := app.controller.DetectSilence(cmd.Context(), silenceOptions())
		if err != nil {
			return err
		}

		if len(report.Segments) == 0 {
			internal.PrintInfo("No silence detected")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "#\tStart\tEnd\tDuration\t")
		for i, seg := range report.Segments {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.2fs\t\n",
				i+1, internal.FormatTimecode(seg.Start), internal.FormatTimecode(seg.End), seg.Duration)
		}
		_ = tw.Flush()

		internal.PrintInfo(fmt.Sprintf("%d silent segment(s), %.1fs total (%.1f%% of %.1fs)",
			report.Stats.NumSilentSegments, report.Stats.TotalSilenceDuration,
			report.Stats.SilencePercentage, report.Stats.TotalDuration))
		return nil
	},
}

var silenceRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Cut silent spans out of the session video",
	Long: `Remove the detected silent spans from the session's video.

The service rewrites the stored video and shifts every subtitle's
timestamps to the shortened cut; subtitles that fell entirely inside
removed silence are dropped. Any generated preview or export becomes
stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.controller.RemoveSilence(cmd.Context(), silenceOptions())
		app.SaveState()
		if err != nil {
			if errors.Is(err, internal.ErrEditInFlight) {
				internal.PrintWarning("An edit is already being processed; try again when it finishes.")
			}
			return err
		}

		if !result.Removed {
			internal.PrintInfo(result.Message)
			return nil
		}

		internal.PrintSuccess(result.Message)
		internal.PrintInfo(fmt.Sprintf("New duration %.1fs (was %.1fs)",
			result.Stats.DurationAfterRemoval, result.Stats.TotalDuration))
		fmt.Println()
		internal.RenderSubtitleTable(os.Stdout, result.Subtitles)
		return nil
	},
}

func silenceOptions() internal.SilenceOptions {
	return internal.SilenceOptions{
		NoiseThreshold:     silenceThreshold,
		MinSilenceDuration: silenceMinDuration,
	}
}

func init() {
	rootCmd.AddCommand(silenceCmd)
	silenceCmd.AddCommand(silenceRemoveCmd)

	silenceCmd.PersistentFlags().StringVar(&silenceThreshold, "threshold", "", "Noise threshold (default -30dB)")
	silenceCmd.PersistentFlags().Float64Var(&silenceMinDuration, "min-duration", 0, "Minimum silence duration in seconds (default 1.0)")
}
