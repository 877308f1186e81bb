package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/config"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	apihttp "github.com/turtacn/hbond-restraints/internal/interfaces/http"
)

type serveOptions struct {
	host  string
	port  int
	watch bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the restraint API over HTTP",
		Long: "Starts the HTTP API.  SIGINT or SIGTERM drains in-flight requests and\n" +
			"exits.  When started with --config, edits to that file are applied to\n" +
			"new requests without a restart.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port, 0 for any free port (overrides server.port)")
	cmd.Flags().BoolVar(&opts.watch, "watch", true, "reload the config file on change")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	cfg := *cliCtx.Config
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}

	// the server logs in the configured format rather than the CLI console
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	svc := restraints.NewService(&cfg, cliCtx.Metrics, logger)
	srv := apihttp.NewServer(&cfg, apihttp.Deps{
		Service:   svc,
		Collector: cliCtx.Collector,
		Metrics:   cliCtx.Metrics,
		Logger:    logger,
		Version:   Version,
	})

	if opts.watch && cliCtx.ConfigPath != "" {
		if err := config.Watch(cliCtx.ConfigPath, logger, svc.Reload); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop(context.Background())
	})
	return g.Wait()
}
