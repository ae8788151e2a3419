package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Edit subtitles with a natural-language message",
	Long: `Send one edit turn to the AI editing service.

Examples:
  vedit chat "Add subtitle 'Hello World' from 0 to 5 seconds"
  vedit chat "Make the last subtitle red"
  vedit chat "Move the first subtitle to the top, bold, size 48"

The service replies with an AI message and the full updated subtitle
collection, which replaces the local timeline. Any previously generated
preview or export becomes stale and will be regenerated on demand.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		message := strings.Join(args, " ")
		result, err := app.controller.SendEdit(cmd.Context(), message)
		app.SaveState()
		if err != nil {
			if errors.Is(err, internal.ErrEditInFlight) {
				internal.PrintWarning("An edit is already being processed; try again when it finishes.")
			}
			return err
		}

		fmt.Println(internal.RenderChatMessage(result.AIMessage))
		fmt.Println()
		internal.RenderSubtitleTable(os.Stdout, result.Subtitles)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
