package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/metrics"
	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func newIndexCmd(cfg config) *cobra.Command {
	var (
		flags       parseFlags
		workers     int
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "index DIR",
		Short: "Load every document below a directory into a spatial index",
		Long: `Parse all CityGML documents below DIR in parallel, build the object
index and print a summary. With --metrics-addr the parse metrics are
served for Prometheus at /metrics until the command is interrupted.

Examples:
  citygml index udx/bldg --workers 8
  citygml index udx --metrics-addr :9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := commonlog.GetLogger("citygml.cli")
			out := cmd.OutOrStdout()

			opts := citygml.DefaultLoadOptions()
			opts.Workers = workers
			opts.ParseOptions = flags.options()
			opts.ErrorLog = cmd.ErrOrStderr()
			opts.Progress = func(loaded, total int) {
				log.Infof("loaded %d/%d", loaded, total)
			}

			start := time.Now()
			idx, errs, err := citygml.BuildIndexFromDir(args[0], citygml.NewParser(), opts)
			if err != nil {
				return err
			}
			b := idx.Bounds()
			fmt.Fprintf(out, "objects: %d\n", idx.Count())
			fmt.Fprintf(out, "failed:  %d\n", len(errs))
			fmt.Fprintf(out, "srs:     %s\n", idx.SRSName())
			fmt.Fprintf(out, "bounds:  %v - %v\n", b.Lower, b.Upper)
			fmt.Fprintf(out, "elapsed: %s\n", time.Since(start).Round(time.Millisecond))

			if metricsAddr == "" {
				return nil
			}
			return serveMetrics(cmd.Context(), metricsAddr, log)
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().IntVar(&workers, "workers", cfg.Workers, "parallel loaders (env CITYGML_WORKERS)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (env CITYGML_METRICS_ADDR)")
	return cmd
}

func serveMetrics(parent context.Context, addr string, log commonlog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Noticef("serving metrics on %s/metrics", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
