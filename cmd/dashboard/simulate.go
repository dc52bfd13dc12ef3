package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/latency-dashboard/internal/generator"
	"github.com/OldStager01/latency-dashboard/internal/logger"
)

var (
	simPort  int
	simTick  time.Duration
	simFlags generatorFlags
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a live synthetic source over HTTP",
	Long: `Serves a generated source at /data.csv that gains one row every --tick.
Point data.path at it and set data.monitor.interval to watch statuses change.
POST /spike and POST /pattern alter the upcoming rows.`,
	Example: "  latency-dashboard simulate --port 9000 --tick 10s\n" +
		"  DASHBOARD_DATA_PATH=http://localhost:9000/data.csv DASHBOARD_DATA_MONITOR_INTERVAL=10s latency-dashboard serve",
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simPort, "port", 9000, "simulator port")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 10*time.Second, "wall time per new row")
	simFlags.register(simulateCmd, 288)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	genCfg, err := simFlags.config()
	if err != nil {
		return err
	}

	feed, err := generator.NewFeed(generator.FeedConfig{Generator: genCfg, Tick: simTick})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", simPort),
		Handler:      feed.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Simulator listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("simulator server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down simulator")
	return shutdown(cfg, srv.Shutdown)
}
