package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navigator/internal/config"
	"github.com/vango-dev/navigator/internal/errors"
	"github.com/vango-dev/navigator/pkg/route"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┐┌┌─┐┬  ┬
  │││├─┤└┐┌┘
  ┘└┘┴ ┴ └┘  navigator
`

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configSource string
	verbose      bool
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// load reads the definitions and builds the registry.
func (o *globalOptions) load(ctx context.Context) (*config.Config, *route.Registry, error) {
	cfg, err := config.LoadSource(ctx, o.configSource)
	if err != nil {
		return nil, nil, err
	}
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "navigator",
		Short: "Inspect and exercise admin route definitions",
		Long: `Navigator loads route definitions and runs them through the same
router the admin application uses.

  • List registered routes and their inherited defaults
  • Resolve a URL to a route and its attributes
  • Generate URLs from a route name and attributes
  • Serve a live inspector over HTTP and WebSocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configSource, "config", "c", ".",
		"Definition file, directory or s3://bucket/key")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		routesCmd(opts),
		matchCmd(opts),
		urlCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// printBanner prints the navigator banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}
