package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teslashibe/go-behavior/internal/config"
	"github.com/teslashibe/go-behavior/internal/log"
	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/hub"
	"github.com/teslashibe/go-behavior/pkg/web"
)

type runOptions struct {
	configPath  string
	listen      string
	robotName   string
	logLevel    string
	catalogPath string
	paramsPath  string
	watch       bool
	seed        int64
}

func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine and its websocket/REST server",
		Long: `Run the behavior engine.

Perception sightings and control events are accepted on /ws/perception,
actuator commands are published on /ws/commands and the engine is
inspected and steered through /api.

Examples:
  # Defaults: listen on :8090 with the built-in animation catalog
  behavior run

  # Config file plus hot-reloaded parameters
  behavior run -c behavior.yaml --params params.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.serve(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	f.StringVar(&opts.listen, "listen", config.DefaultListen, "Listen address")
	f.StringVar(&opts.robotName, "robot", config.DefaultRobotName, "Robot name reported by /api/health")
	f.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	f.StringVar(&opts.catalogPath, "catalog", "", "Animation catalog YAML (built-in when empty)")
	f.StringVar(&opts.paramsPath, "params", "", "Live parameter YAML applied at startup")
	f.BoolVar(&opts.watch, "watch", false, "Reload params and catalog files when they change")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed (0 seeds from the clock)")
	return cmd
}

// apply lets explicitly set flags override the file and environment.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("listen") {
		cfg.Listen = o.listen
	}
	if f.Changed("robot") {
		cfg.RobotName = o.robotName
	}
	if f.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if f.Changed("catalog") {
		cfg.CatalogPath = o.catalogPath
	}
	if f.Changed("params") {
		cfg.ParamsPath = o.paramsPath
	}
	if f.Changed("watch") {
		cfg.Watch = o.watch
	}
	if f.Changed("seed") {
		cfg.Seed = o.seed
	}
}

func (a *App) serve(ctx context.Context, cfg config.Config) error {
	log.Init(cfg.LogLevel, cfg.LogFormat)
	logger := log.L().With("robot", cfg.RobotName)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer provider.Shutdown(context.Background())

	metrics, err := behavior.NewMetrics(provider)
	if err != nil {
		return err
	}

	commands := hub.New("commands", logger)
	opts := []behavior.Option{
		behavior.WithLogger(logger),
		behavior.WithOutput(web.NewPublisher(commands)),
		behavior.WithCatalogPath(cfg.CatalogPath),
		behavior.WithMetrics(metrics),
		behavior.WithEventBuffer(cfg.EventBuffer),
	}
	if cfg.Seed != 0 {
		opts = append(opts, behavior.WithSeed(cfg.Seed))
	}
	engine, err := behavior.New(opts...)
	if err != nil {
		return err
	}

	if cfg.ParamsPath != "" {
		u, err := config.LoadParams(cfg.ParamsPath)
		if err != nil {
			return err
		}
		if err := engine.Configure(u); err != nil {
			return err
		}
	}

	srv := web.NewServer(engine, commands, web.Options{
		Addr:      cfg.Listen,
		RobotName: cfg.RobotName,
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go commands.Run(ctx)
	if cfg.Watch {
		w := config.NewWatcher(cfg.ParamsPath, cfg.CatalogPath, engine, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Warn("watcher stopped", "error", err)
			}
		}()
	}

	errc := make(chan error, 2)
	go func() { errc <- engine.Run(ctx) }()
	go func() { errc <- srv.Start() }()

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errc:
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}

	cancel()
	if shutdownErr := srv.Shutdown(); shutdownErr != nil {
		logger.Warn("server shutdown", "error", shutdownErr)
	}
	<-engine.Done()
	logMetrics(reader, logger)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// logMetrics writes the final counter totals.
func logMetrics(reader *sdkmetric.ManualReader, logger *slog.Logger) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return
	}
	args := []any{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			args = append(args, m.Name, total)
		}
	}
	logger.Info("engine totals", args...)
}
