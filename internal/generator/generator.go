package generator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
	"github.com/OldStager01/latency-dashboard/pkg/validation"
)

const (
	DefaultTitle    = "Server response times"
	timestampLayout = "2006-01-02T15:04:05"
)

// Server is one generated column. Base is in microseconds.
type Server struct {
	Name    string
	Base    float64
	Pattern Pattern
}

type Config struct {
	Title     string
	Servers   []Server
	Start     time.Time
	Interval  time.Duration
	Rows      int
	Seed      int64
	Overrides []Override
}

// Override multiplies a server's values for the rows in [FromStep, ToStep).
type Override struct {
	Server   string
	FromStep int
	ToStep   int
	Factor   float64
}

func (c *Config) factor(server string, step int) float64 {
	f := 1.0
	for _, o := range c.Overrides {
		if o.Server == server && step >= o.FromStep && step < o.ToStep {
			f *= o.Factor
		}
	}
	return f
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Servers) == 0 {
		errs = append(errs, errors.New("at least one server is required"))
	}
	seen := make(map[string]bool)
	for _, s := range c.Servers {
		switch {
		case strings.EqualFold(s.Name, models.TimeColumn):
			errs = append(errs, fmt.Errorf("invalid server name %q", s.Name))
		case validation.ValidateServerName(s.Name) != nil:
			errs = append(errs, fmt.Errorf("server %q: %w", s.Name, validation.ValidateServerName(s.Name)))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("duplicate server %q", s.Name))
		}
		seen[s.Name] = true
		if s.Base <= 0 {
			errs = append(errs, fmt.Errorf("server %q: base response time must be positive", s.Name))
		}
	}
	if c.Rows < 0 {
		errs = append(errs, errors.New("rows must not be negative"))
	}
	if c.Interval <= 0 {
		errs = append(errs, errors.New("interval must be positive"))
	}
	for _, o := range c.Overrides {
		if !seen[o.Server] {
			errs = append(errs, fmt.Errorf("override for unknown server %q", o.Server))
		}
		if o.Factor <= 0 {
			errs = append(errs, fmt.Errorf("override for %q: factor must be positive", o.Server))
		}
	}
	return errors.Join(errs...)
}

// ParseServers reads "name:base[:pattern]" definitions, e.g. "web:250:daily".
func ParseServers(defs []string) ([]Server, error) {
	servers := make([]Server, 0, len(defs))
	for _, def := range defs {
		parts := strings.Split(def, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid server definition %q, expected name:base[:pattern]", def)
		}
		base, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid base response time in %q: %w", def, err)
		}
		pattern := PatternSteady
		if len(parts) == 3 {
			if pattern, err = ParsePattern(parts[2]); err != nil {
				return nil, err
			}
		}
		servers = append(servers, Server{Name: validation.SanitizeString(parts[0]), Base: base, Pattern: pattern})
	}
	return servers, nil
}

// Generate writes a source file: a title row, the Time header and one row
// per interval with unit suffixed cells.
func Generate(w io.Writer, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid generator config: %w", err)
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	if _, err := fmt.Fprintln(w, cfg.Title); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(cfg.Servers)+1)
	header = append(header, models.TimeColumn)
	for _, s := range cfg.Servers {
		header = append(header, s.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for step := 0; step < cfg.Rows; step++ {
		at := cfg.Start.Add(time.Duration(step) * cfg.Interval)
		record[0] = at.Format(timestampLayout)
		for i, s := range cfg.Servers {
			pattern := s.Pattern
			if pattern == nil {
				pattern = PatternSteady
			}
			record[i+1] = FormatCell(pattern.Apply(s.Base, at, step, rng) * cfg.factor(s.Name, step))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatCell renders a response time the way monitoring exports do:
// microseconds below one millisecond, milliseconds above.
func FormatCell(us float64) string {
	us = math.Max(math.Round(us), 1)
	if us < 1000 {
		return fmt.Sprintf("%.0f µs", us)
	}
	return fmt.Sprintf("%.1f ms", us/1000)
}

func GenerateFile(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Generate(f, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"path":    path,
		"rows":    cfg.Rows,
		"servers": len(cfg.Servers),
	}).Info("Source file generated")
	return nil
}
