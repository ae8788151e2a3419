package cmd

import (
	"fmt"

	"github.com/mahideveloper1/Video-editor-assignment/internal"
	"github.com/spf13/cobra"
)

var historyRemote bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session's chat history",
	Long: `Show the conversation so far: your edit requests, the AI's replies, and
any errors recorded as system messages.

With --remote the history is fetched from the service instead of the
local session store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.controller.HasSession() {
			return internal.ErrNoSession
		}

		messages := app.controller.History()
		if historyRemote {
			messages, err = app.controller.Client().GetChatHistory(cmd.Context(), app.controller.SessionID())
			if err != nil {
				return err
			}
		}

		fmt.Println(internal.RenderChatHistory(messages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyRemote, "remote", false, "Fetch history from the service")
}
