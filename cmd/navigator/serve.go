package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navigator/pkg/inspector"
	"github.com/vango-dev/navigator/pkg/telemetry"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr        string
		idleTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the route inspector",
		Long: `Start the inspector HTTP server. It serves the route registry as JSON,
Prometheus metrics on /metrics and live router sessions on /ws.

Examples:
  navigator serve
  navigator serve --addr 0.0.0.0:7070 --config s3://cms-config/admin/routes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, opts, addr, idleTimeout)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from the definition file)")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", inspector.DefaultSessionIdleTimeout, "Close idle WebSocket sessions after this long")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *globalOptions, addr string, idleTimeout time.Duration) error {
	cfg, reg, err := opts.load(ctx)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Inspector.Addr
	}

	logger := opts.logger(cmd.ErrOrStderr())

	srv := inspector.New(inspector.Config{
		Registry:           reg,
		Addr:               addr,
		ReadTimeout:        cfg.Inspector.ReadTimeout.Std(),
		WriteTimeout:       cfg.Inspector.WriteTimeout.Std(),
		SessionIdleTimeout: idleTimeout,
		Telemetry:          telemetry.New(),
		Logger:             logger,
	})

	w := cmd.OutOrStdout()
	printBanner(w)
	fmt.Fprintf(w, "  %d routes from %s\n", reg.Len(), cfg.Source())
	fmt.Fprintf(w, "  http://%s/routes\n\n", addr)

	return srv.ListenAndServe(ctx)
}
