package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sadopc/minima/internal/server"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace as a JSON API",
		Long: `Serve the workspace as a JSON API on localhost until interrupted.

The server and the TUI share the single-instance lock, so only one of them
can run against a data directory at a time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			rt, err := openRuntime(cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			opts := server.Options{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         log.New(cmd.ErrOrStderr(), "minima: ", log.LstdFlags),
			}
			if !quiet {
				opts.AccessLog = cmd.ErrOrStderr()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(rt.session, opts).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable the access log")
	return cmd
}
