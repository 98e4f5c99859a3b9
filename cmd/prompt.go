package cmd

import (
	"fmt"
	"strings"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/prompt"
	"github.com/spf13/cobra"
)

var promptList bool

var promptCmd = &cobra.Command{
	Use:   "prompt [variant]",
	Short: "Print the rendered instruction prompt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.NewConfig()
		templates, err := prompt.Load(conf.PromptsFile)
		if err != nil {
			return err
		}

		if promptList {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(templates.Names(), "\n"))
			return err
		}

		variant := conf.PromptVariant
		if len(args) == 1 {
			variant = args[0]
		}

		b, err := templates.Builder(variant)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), b.Render())
		return err
	},
}

func init() {
	promptCmd.Flags().BoolVarP(&promptList, "list", "l", false, "list available prompt variants")
	rootCmd.AddCommand(promptCmd)
}
