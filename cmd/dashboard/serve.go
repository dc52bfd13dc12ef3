package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/latency-dashboard/api"
	"github.com/OldStager01/latency-dashboard/internal/alerting"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/metrics"
	"github.com/OldStager01/latency-dashboard/internal/monitor"
	"github.com/OldStager01/latency-dashboard/internal/resilience"
	"github.com/OldStager01/latency-dashboard/pkg/config"
	"github.com/OldStager01/latency-dashboard/pkg/database"
	"github.com/OldStager01/latency-dashboard/pkg/database/queries"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Loads the measurement source and serves the dashboard page, the JSON
API, chart images, CSV export and live websocket updates until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "API port (overrides api.port)")
	v.BindPFlag("api.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()

	m := metrics.Get()
	srcCfg := cfg.Data.Fetch.ToSourceConfig()
	srcCfg.Breaker.OnStateChange = func(name string, from, to resilience.State) {
		m.SetCircuitBreakerState(name, int(to))
		logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
	}
	policy := alerting.NewPolicy(alerting.Config{Cooldown: cfg.Events.AlertCooldown})
	svc, err := openServiceWith(ctx, cfg, srcCfg,
		dashboard.WithPublisher(events.NewPublisher(bus).WithAlertPolicy(policy)),
		dashboard.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	deps := api.Dependencies{Service: svc, Bus: bus, Metrics: m}

	var store events.StatusCheckStore
	var breaker *resilience.CircuitBreaker
	if cfg.Database.Enabled {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := queries.NewStatusCheckRepository(db.DB)
		breakerCfg := cfg.History.CircuitBreaker.ToBreakerConfig("status_history")
		breakerCfg.OnStateChange = func(name string, from, to resilience.State) {
			m.SetCircuitBreakerState(name, int(to))
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		}
		breaker = resilience.NewCircuitBreaker(breakerCfg)

		store = repo
		deps.DB, deps.History = db, repo
	}

	eventLogger := events.NewEventLogger(store, breaker, bus.SubscribeAll())
	eventLogger.Start()
	defer eventLogger.Stop()

	if cfg.Data.Monitor.Interval > 0 {
		mon := monitor.New(monitor.Config{
			Interval: cfg.Data.Monitor.Interval,
			Servers:  cfg.Data.Monitor.Servers,
		}, svc)
		mon.Start()
		defer mon.Stop()
	}

	server, err := api.NewServer(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to build API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	if cfg.Prometheus.Enabled {
		metricsServer := metrics.NewServer(cfg.Prometheus.Port, m)
		g.Go(func() error {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return shutdown(cfg, metricsServer.Shutdown)
		})
	}

	// Wait for a signal or a failed listener, then drain
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		return shutdown(cfg, server.Shutdown)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func shutdown(cfg *config.Config, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// openDatabase connects and applies pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")

	if err := migrate(ctx, cfg, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, cfg *config.Config, db *database.DB) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Database.MigrationTimeout)
	defer cancel()

	applied, err := database.NewMigrator(db).Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Infof("Migrations up to date (%d applied)", len(applied))
	return nil
}
