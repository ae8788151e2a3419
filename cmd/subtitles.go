package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/mahideveloper1/Video-editor-assignment/internal/export"
	"github.com/spf13/cobra"
)

var (
	subtitlesRemote       bool
	subtitlesExportFormat string
	subtitlesExportOutput string
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles",
	Short: "Show the current subtitle collection",
	Long: `Show the session's subtitles as a table.

With --remote the collection is re-fetched from the service and replaces
the local timeline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if subtitlesRemote {
			if _, err := app.controller.RefreshSubtitles(cmd.Context()); err != nil {
				app.SaveState()
				return err
			}
			app.SaveState()
		}

		internal.RenderSubtitleTable(os.Stdout, app.controller.Timeline().Snapshot())
		return nil
	},
}

var subtitlesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all subtitles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.controller.ClearSubtitles(cmd.Context()); err != nil {
			app.SaveState()
			return err
		}
		app.SaveState()
		internal.PrintSuccess("All subtitles cleared")
		return nil
	},
}

var subtitlesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the subtitles to a local file (srt, vtt, json, yaml)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.controller.HasSession() {
			return internal.ErrNoSession
		}

		exporter, err := export.NewExporter(subtitlesExportFormat)
		if err != nil {
			return err
		}

		path := subtitlesExportOutput
		if path == "" {
			base := strings.TrimSuffix(app.controller.Filename(), filepath.Ext(app.controller.Filename()))
			if base == "" {
				base = "subtitles"
			}
			path = base + "." + exporter.Extension()
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		if err := exporter.Export(app.controller.Timeline().Snapshot(), f); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Wrote %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subtitlesCmd)
	subtitlesCmd.AddCommand(subtitlesClearCmd)
	subtitlesCmd.AddCommand(subtitlesExportCmd)

	subtitlesCmd.Flags().BoolVar(&subtitlesRemote, "remote", false, "Re-fetch subtitles from the service")
	subtitlesExportCmd.Flags().StringVarP(&subtitlesExportFormat, "format", "f", "srt", "Export format (srt, vtt, json, yaml)")
	subtitlesExportCmd.Flags().StringVarP(&subtitlesExportOutput, "output", "o", "", "Output file (default: <video name>.<ext>)")
}
