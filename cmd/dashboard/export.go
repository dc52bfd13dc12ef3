package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportSelection selectionFlags
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered view as CSV",
	Long:  "Write the rows of the selected period, with every server column in microseconds, to a CSV file",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportSelection.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout (defaults to data.export_filename)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}

	vm, err := svc.Evaluate(ctx, exportSelection.input(cmd))
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = cfg.Data.ExportFilename
	}
	if path == "-" {
		return svc.Export(ctx, cmd.OutOrStdout(), vm)
	}
	if path == cfg.Data.Path {
		return fmt.Errorf("refusing to overwrite the source file %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := svc.Export(ctx, f, vm); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", vm.Rows, path)
	return nil
}
