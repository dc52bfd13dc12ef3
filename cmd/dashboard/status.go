package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var (
	statusSelection selectionFlags
	statusOutput    string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the status of a server",
	Long:  "Evaluate a selection and print the latest value and its status as text, JSON or YAML",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusSelection.register(statusCmd)
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format: text, json or yaml")
}

type statusReport struct {
	Server       string        `json:"server" yaml:"server"`
	Period       string        `json:"period" yaml:"period"`
	Rows         int           `json:"rows" yaml:"rows"`
	HasData      bool          `json:"has_data" yaml:"has_data"`
	LatestValue  float64       `json:"latest_value" yaml:"latest_value"`
	MinThreshold float64       `json:"min_threshold" yaml:"min_threshold"`
	MaxThreshold float64       `json:"max_threshold" yaml:"max_threshold"`
	Status       models.Status `json:"status" yaml:"status"`
	Text         string        `json:"text" yaml:"text"`
	Mean         float64       `json:"mean,omitempty" yaml:"mean,omitempty"`
	P95          float64       `json:"p95,omitempty" yaml:"p95,omitempty"`
	Trend        models.Trend  `json:"trend,omitempty" yaml:"trend,omitempty"`
	Streak       int           `json:"streak,omitempty" yaml:"streak,omitempty"`
}

func newStatusReport(vm *models.ViewModel) statusReport {
	period := "all"
	if vm.Selection.Range != nil {
		period = vm.Selection.Range.String()
	}
	report := statusReport{
		Server:       vm.Selection.Server,
		Period:       period,
		Rows:         vm.Rows,
		HasData:      vm.HasData,
		LatestValue:  vm.LatestValue,
		MinThreshold: vm.Selection.MinThreshold,
		MaxThreshold: vm.Selection.MaxThreshold,
		Status:       vm.Status,
		Text:         vm.StatusText,
	}
	if sum := vm.Summary; sum != nil && sum.Count > 0 {
		report.Mean, report.P95 = sum.Mean, sum.P95
		report.Trend, report.Streak = sum.Trend, sum.Streak
	}
	return report
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}

	vm, err := svc.Evaluate(ctx, statusSelection.input(cmd))
	if err != nil {
		return err
	}

	return writeStatus(cmd.OutOrStdout(), newStatusReport(vm), statusOutput)
}

func writeStatus(w io.Writer, report statusReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		latest := fmt.Sprintf("%g µs", report.LatestValue)
		if !report.HasData {
			latest = "no data"
		}
		if _, err := fmt.Fprintf(w, "Server:      %s\nPeriod:      %s\nRows:        %d\nLatest:      %s\nThresholds:  %g µs .. %g µs\n",
			report.Server, report.Period, report.Rows, latest, report.MinThreshold, report.MaxThreshold); err != nil {
			return err
		}
		if report.HasData {
			if _, err := fmt.Fprintf(w, "Trend:       %s (mean %g µs, p95 %g µs, %d rows %s)\n",
				report.Trend, report.Mean, report.P95, report.Streak, report.Status); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, report.Text)
		return err
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", format)
	}
}
