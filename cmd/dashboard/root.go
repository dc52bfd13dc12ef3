package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/source"
	"github.com/OldStager01/latency-dashboard/pkg/config"
)

var (
	v       = viper.New()
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "latency-dashboard",
	Short: "Server response time dashboard",
	Long: `Loads a server response time export, normalizes every value to
microseconds and classifies the latest value of a server against a
min/max threshold pair. The same evaluation is served over HTTP, in a
terminal dashboard and from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().String("data", "", "measurement source CSV (overrides data.path)")
	rootCmd.PersistentFlags().String("timezone", "", "timezone of naive timestamps (overrides data.timezone)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides app.log_level)")
	v.BindPFlag("data.path", rootCmd.PersistentFlags().Lookup("data"))
	v.BindPFlag("data.timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	v.BindPFlag("app.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	return cfg, nil
}

func boundsFrom(cfg *config.Config) dashboard.Bounds {
	return dashboard.Bounds{
		Min:        cfg.Thresholds.Min,
		Max:        cfg.Thresholds.Max,
		DefaultMin: cfg.Thresholds.DefaultMin,
		DefaultMax: cfg.Thresholds.DefaultMax,
	}
}

// openService loads the configured source and returns the service bound to
// it.
func openService(ctx context.Context, cfg *config.Config, opts ...dashboard.Option) (*dashboard.Service, error) {
	return openServiceWith(ctx, cfg, cfg.Data.Fetch.ToSourceConfig(), opts...)
}

func openServiceWith(ctx context.Context, cfg *config.Config, srcCfg source.Config, opts ...dashboard.Option) (*dashboard.Service, error) {
	loc, err := cfg.Data.Location()
	if err != nil {
		return nil, err
	}

	src, err := source.New(cfg.Data.Path, srcCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid data.path %q: %w", cfg.Data.Path, err)
	}

	cache := dataset.NewSourceCache(src, dataset.NewLoader(loc))
	svc := dashboard.NewService(cache, boundsFrom(cfg), opts...)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.Data.Path, err)
	}
	return svc, nil
}

// selectionFlags are the control state shared by status, export and chart.
type selectionFlags struct {
	server string
	start  string
	end    string
	min    float64
	max    float64
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "", "server column (defaults to the first one)")
	cmd.Flags().StringVar(&f.start, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&f.min, "min", 0, "minimum threshold in microseconds (default from config)")
	cmd.Flags().Float64Var(&f.max, "max", 0, "maximum threshold in microseconds (default from config)")
}

func (f *selectionFlags) input(cmd *cobra.Command) dashboard.SelectionInput {
	in := dashboard.SelectionInput{Server: f.server, Start: f.start, End: f.end}
	if cmd.Flags().Changed("min") {
		in.Min = &f.min
	}
	if cmd.Flags().Changed("max") {
		in.Max = &f.max
	}
	return in
}
