package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var (
	exportFilename   string
	exportOutputDir  string
	exportCopyURL    bool
	exportNoDownload bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the video with subtitles burned in and download it",
	Long: `Render the current subtitles into the video and download the result.

If a preview was generated since the last edit, its artifact is reused
and no second render happens. Otherwise the video is rendered first.
The file is always saved to disk rather than opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		artifact, err := app.controller.Export(cmd.Context(), exportFilename)
		app.SaveState()
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Export ready: %s (timeline version %d)", artifact.Filename, artifact.GeneratedAtVersion))

		if exportCopyURL {
			url := app.controller.Client().ResolveURL(artifact.DownloadURL)
			if err := clipboard.WriteAll(url); err != nil {
				internal.PrintWarning(fmt.Sprintf("Could not copy URL to clipboard: %v", err))
			} else {
				internal.PrintInfo("Download URL copied to clipboard")
			}
		}

		if exportNoDownload {
			return nil
		}

		dir := exportOutputDir
		if dir == "" {
			dir = app.cfg.DownloadDir
		}
		path, err := app.controller.DownloadTo(cmd.Context(), dir)
		app.SaveState()
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Saved %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFilename, "filename", "", "Output filename sent to the service")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "", "Directory to save into (default: download_dir from config)")
	exportCmd.Flags().BoolVar(&exportCopyURL, "copy-url", false, "Copy the download URL to the clipboard")
	exportCmd.Flags().BoolVar(&exportNoDownload, "no-download", false, "Generate the artifact but skip saving it")
}
