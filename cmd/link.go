package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hako/durafmt"
	"github.com/kotrzina/calassist/pkg/extractor"
	"github.com/kotrzina/calassist/pkg/ics"
	"github.com/kotrzina/calassist/pkg/opener"
	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	linkFromClipboard bool
	linkOpen          bool
	linkQR            bool
	linkQRFile        string
	linkICSFile       string
	linkAPIKey        string
	linkJSON          bool
)

// readClipboard is replaced in tests
var readClipboard = clipboard.ReadAll

var linkCmd = &cobra.Command{
	Use:   "link [text...]",
	Short: "Generate a calendar link from text",
	Long: `Generate a Google Calendar link from the text given as arguments,
from the clipboard (--clipboard) or from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args, linkFromClipboard, cmd.InOrStdin())
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		res, err := a.extractor.Extract(cmd.Context(), extractor.Request{Text: text, APIKey: linkAPIKey})
		if err != nil {
			return err
		}

		logSummary(a.logger, res)

		return writeLink(cmd.OutOrStdout(), res)
	},
}

func init() {
	linkCmd.Flags().BoolVarP(&linkFromClipboard, "clipboard", "c", false, "read the text from the clipboard")
	linkCmd.Flags().BoolVarP(&linkOpen, "open", "o", false, "open the link in the default browser")
	linkCmd.Flags().BoolVar(&linkQR, "qr", false, "print the link as a QR code")
	linkCmd.Flags().StringVar(&linkQRFile, "qr-png", "", "write the link as a QR code PNG to the file")
	linkCmd.Flags().StringVar(&linkICSFile, "ics", "", "write the event as iCalendar to the file")
	linkCmd.Flags().StringVar(&linkAPIKey, "apikey", "", "API key, overrides the environment")
	linkCmd.Flags().BoolVar(&linkJSON, "json", false, "print the link with the extracted details as JSON")

	rootCmd.AddCommand(linkCmd)
}

// readText picks the text from arguments, clipboard or stdin in this order
func readText(args []string, fromClipboard bool, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if fromClipboard {
		text, err := readClipboard()
		if err != nil {
			return "", fmt.Errorf("could not read clipboard: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.New("clipboard is empty")
		}
		return text, nil
	}

	if f, ok := stdin.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no text given, pass it as arguments, use --clipboard or pipe it to stdin")
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no text given")
	}

	return string(data), nil
}

func logSummary(logger *logrus.Logger, res extractor.Result) {
	fields := logrus.Fields{
		"event":  res.Details.EventName,
		"cached": res.Cached,
	}
	if d, ok := res.Duration(); ok {
		fields["duration"] = durafmt.Parse(d).LimitFirstN(2).String()
	}

	logger.WithFields(fields).Info("Event extracted")
}

func writeLink(w io.Writer, res extractor.Result) error {
	if linkJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal result: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w, res.URL); err != nil {
		return err
	}

	if linkQR {
		qrterminal.GenerateHalfBlock(res.URL, qrterminal.L, w)
	}

	if linkQRFile != "" {
		if err := qrcode.WriteFile(res.URL, qrcode.Medium, 512, linkQRFile); err != nil {
			return fmt.Errorf("could not write QR code: %w", err)
		}
	}

	if linkICSFile != "" {
		if err := os.WriteFile(linkICSFile, []byte(ics.Export(res.Params, time.Now())), 0o644); err != nil {
			return fmt.Errorf("could not write iCalendar file: %w", err)
		}
	}

	if linkOpen {
		if err := opener.Open(res.URL); err != nil {
			return err
		}
	}

	return nil
}
