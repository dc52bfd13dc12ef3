package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/latency-dashboard/internal/generator"
	"github.com/OldStager01/latency-dashboard/internal/source"
)

var (
	genOutput string
	genFlags  generatorFlags
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic measurement source",
	Long: `Write a source CSV in the monitoring export format (title row, Time header,
unit suffixed cells). Servers are given as name:base[:pattern] with the base
response time in microseconds. Patterns: ` + strings.Join(generator.PatternNames(), ", "),
	Example: "  latency-dashboard generate --server web:250:daily --server db:800:spike --rows 288",
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "output file (defaults to data.path)")
	genFlags.register(generateCmd, 2016)
}

// generatorFlags are shared by generate and simulate.
type generatorFlags struct {
	servers  []string
	start    string
	interval time.Duration
	rows     int
	seed     int64
}

func (f *generatorFlags) register(cmd *cobra.Command, rows int) {
	cmd.Flags().StringArrayVar(&f.servers, "server", []string{"srv1:250:daily", "srv2:400:random"}, "server definition name:base[:pattern]")
	cmd.Flags().StringVar(&f.start, "start", "", "first timestamp, YYYY-MM-DD or RFC 3339 (defaults to seven days ago)")
	cmd.Flags().DurationVar(&f.interval, "interval", 5*time.Minute, "time between rows")
	cmd.Flags().IntVar(&f.rows, "rows", rows, "number of rows")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "random seed")
}

func (f *generatorFlags) config() (generator.Config, error) {
	servers, err := generator.ParseServers(f.servers)
	if err != nil {
		return generator.Config{}, err
	}

	start, err := parseStart(f.start)
	if err != nil {
		return generator.Config{}, err
	}

	return generator.Config{
		Servers:  servers,
		Start:    start,
		Interval: f.interval,
		Rows:     f.rows,
		Seed:     f.seed,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	genCfg, err := genFlags.config()
	if err != nil {
		return err
	}

	path := genOutput
	if path == "" {
		path = cfg.Data.Path
	}
	if source.IsRemote(path) {
		return fmt.Errorf("cannot generate into remote source %s, use --output", path)
	}

	if err := generator.GenerateFile(path, genCfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows for %d servers to %s\n", genCfg.Rows, len(genCfg.Servers), path)
	return nil
}

func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Now().AddDate(0, 0, -7).Truncate(time.Hour), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q, expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
