package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/kotrzina/calassist/pkg/ai"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calassist",
	Short: "Turn freeform text into a Google Calendar event link",
	Long: `calassist sends the selected text to a chat-completion API, reads the
event name, dates, location and description from the reply and builds
a Google Calendar "create event" link.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
// An invalid API key exits with code 2, every other failure with code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ai.ErrInvalidAPIKey) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
