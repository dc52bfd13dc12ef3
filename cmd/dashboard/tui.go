package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/OldStager01/latency-dashboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := openService(context.Background(), cfg)
	if err != nil {
		return err
	}

	return tui.Run(svc, cfg.Data.ExportFilename)
}
