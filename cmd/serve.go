package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kotrzina/calassist/pkg/web"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the link API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		port := a.conf.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		router := web.NewRouter(web.NewHandlerRepository(a.extractor, a.storage, a.monitor, a.logger))
		return web.StartServer(ctx, router, port, a.logger)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port, overrides PORT")
	rootCmd.AddCommand(serveCmd)
}
