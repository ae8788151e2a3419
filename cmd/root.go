package cmd

import (
	"fmt"
	"os"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	apiURL     string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vedit",
	Short: "Chat-driven subtitle editing for video",
	Long: `vedit is a client for an AI video editing service: upload a video,
describe subtitle edits in plain language, preview the result, and export
a video with the subtitles burned in.

The service applies each edit and returns the full updated subtitle
collection; vedit keeps your session, chat history, and generated
artifacts consistent with it.

Quick Start:
  vedit upload clip.mp4                      # Create an editing session
  vedit chat "Add 'Hi' from 0 to 5 seconds"  # Edit subtitles in plain language
  vedit subtitles                            # Show the current subtitles
  vedit play                                 # Play back with the subtitle overlay
  vedit export                               # Burn in subtitles and download

Set VEDIT_API_URL (or api_url in ~/.vedit.yaml) to point at the service.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.vedit.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Service base URL (overrides config and VEDIT_API_URL)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
