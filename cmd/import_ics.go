package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/gcal"
	"github.com/kotrzina/calassist/pkg/ics"
	"github.com/spf13/cobra"
)

var (
	importFrom string
	importTo   string
)

var importICSCmd = &cobra.Command{
	Use:   "import-ics <file|->",
	Short: "Generate calendar links for every event of an iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.NewConfig()
		loc, err := conf.Location()
		if err != nil {
			return err
		}

		start, end, err := importRange(importFrom, importTo, time.Now(), loc)
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open calendar: %w", err)
			}
			defer f.Close() //nolint: errcheck
			r = f
		}

		events, err := ics.Import(r, gcal.NewBuilder(conf.CalendarBaseURL, loc), start, end)
		if err != nil {
			return err
		}

		for _, e := range events {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Summary, e.URL); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	importICSCmd.Flags().StringVar(&importFrom, "from", "", "first day (YYYY-MM-DD), default 30 days ago")
	importICSCmd.Flags().StringVar(&importTo, "to", "", "last day (YYYY-MM-DD), default one year ahead")
	rootCmd.AddCommand(importICSCmd)
}

// importRange resolves --from and --to, the last day is inclusive
func importRange(from, to string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(1, 0, 0)

	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}

	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t.AddDate(0, 0, 1)
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must not be before --from")
	}

	return start, end, nil
}
