package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/previewdeck/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over HTTP for browser dev tools",
	Long: `Serve the session's preview manager over HTTP. The state is saved back to the
session when the server stops. Prometheus metrics are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			addr := serveAddr
			if addr == "" {
				addr = s.settings.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !jsonOutput {
				PrintInfo(fmt.Sprintf("Serving session %s on http://%s (Ctrl-C to stop)", s.name, addr))
			}
			return api.NewServer(s.manager, s.builder, log.Logger).ListenAndServe(ctx, addr)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")
}
