package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/recallgraph/recallgraph/internal/api"
	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/lifecycle"
	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/search"
	"github.com/recallgraph/recallgraph/internal/tracing"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read API over the assembled graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.APIPort = servePort
		}

		logger := logging.GetLogger("serve")

		tracer, err := tracing.NewProvider(tracing.Config{
			Enabled:  cfg.TracingEnabled,
			Endpoint: cfg.TracingEndpoint,
		})
		if err != nil {
			return err
		}

		clientCfg := graphstore.DefaultClientConfig()
		clientCfg.Host = cfg.Graph.Host
		clientCfg.Port = cfg.Graph.Port
		clientCfg.Password = cfg.Graph.Password
		clientCfg.GraphName = cfg.Graph.GraphName
		graphClient := graphstore.NewClient(clientCfg)

		if err := graphClient.Connect(cmd.Context()); err != nil {
			return err
		}
		defer graphClient.Close()

		var searcher api.Searcher
		if cfg.Search.Enabled {
			searcher = search.NewClient(cfg.Search.BaseURL, cfg.Search.Index, 30*time.Second)
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		server := api.New(cfg.APIPort, graphClient, searcher, registry, tracer.GetTracer("recallgraph.api"))

		manager := lifecycle.NewManager()
		if err := manager.Register(tracer); err != nil {
			return err
		}
		if err := manager.Register(server); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := manager.Start(ctx); err != nil {
			return err
		}
		logger.Info("serving on port %d, press Ctrl+C to stop", cfg.APIPort)

		<-ctx.Done()
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		manager.Stop(shutdownCtx)
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port for the read API (overrides config)")
}
