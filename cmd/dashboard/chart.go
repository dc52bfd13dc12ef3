package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/evaluator"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

var (
	chartSelection selectionFlags
	chartFormat    string
	chartOutput    string
	chartWidth     int
	chartHeight    int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the response time chart",
	Long:  "Render the chart of the selected server as PNG or SVG, or draw it in the terminal",
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartSelection.register(chartCmd)
	chartCmd.Flags().StringVarP(&chartFormat, "format", "f", "png", "png, svg or terminal")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output file (defaults to chart.<format>)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "width in pixels, or columns for terminal")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "height in pixels, or rows for terminal")
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}

	vm, err := svc.Evaluate(ctx, chartSelection.input(cmd))
	if err != nil {
		return err
	}

	if strings.EqualFold(chartFormat, "terminal") {
		width, height := orDefault(chartWidth, 80), orDefault(chartHeight, 16)
		minT, maxT := vm.Selection.MinThreshold, vm.Selection.MaxThreshold
		classify := func(v float64) models.Status { return evaluator.Classify(v, minT, maxT) }
		fmt.Fprintln(cmd.OutOrStdout(), chart.Terminal(vm.Chart, width, height, classify))
		fmt.Fprintln(cmd.OutOrStdout(), chart.StatusStyle(vm.Status).Render(vm.StatusText))
		return nil
	}

	format, err := chart.ParseFormat(chartFormat)
	if err != nil {
		return err
	}

	path := chartOutput
	if path == "" {
		path = "chart." + string(format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	err = chart.Render(f, vm.Chart, format, orDefault(chartWidth, chart.DefaultWidth), orDefault(chartHeight, chart.DefaultHeight))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, vm.StatusText)
	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
