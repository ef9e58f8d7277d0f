package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/app"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/operations"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract benchmarks from a directory of workbooks into a CSV report",
	Long: `Finds every .xlsx, .xlsm and .xls file in the input directory (Excel
lock files are skipped), extracts each one on a worker pool and writes one
report row per file in name order. A flag summary is written next to the
report as <report>.summary.json.

A workbook that cannot be opened still gets a row, flagged "Load Error".
Interrupting the run still writes the full report; documents that were
never started are flagged "Extraction Error: context canceled".`,
	Args: cobra.NoArgs,
	RunE: runProcessCmd,
}

var (
	processIn       string
	processOut      string
	processDetailed bool
	processWorkers  int
	processBOM      bool
)

func init() {
	processCmd.Flags().StringVarP(&processIn, "in", "i", "", "Input directory (defaults to paths.input_dir)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "Report file (defaults to paths.reports_dir/paths.report_file)")
	processCmd.Flags().BoolVar(&processDetailed, "detailed", false, "Add every financing category and both section totals")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "Documents processed in parallel (defaults to batch.workers)")
	processCmd.Flags().BoolVar(&processBOM, "bom", false, "Prefix the report with a UTF-8 byte order mark for Excel")

	rootCmd.AddCommand(processCmd)
}

func runProcessCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("detailed") {
		cfg.Batch.Detailed = processDetailed
	}
	if processWorkers > 0 {
		cfg.Batch.Workers = processWorkers
	}
	if cmd.Flags().Changed("bom") {
		cfg.Batch.BOMPrefix = processBOM
	}

	return runApp(cmd, cfg, func(ctx context.Context, a *app.Application) error {
		resp, err := a.Process(ctx, processIn, processOut)
		if resp != nil {
			printProcessSummary(cmd.OutOrStdout(), resp)
		}
		return err
	})
}

func printProcessSummary(w io.Writer, resp *operations.ProcessResponse) {
	s := resp.Summary
	fmt.Fprintf(w, "Processed %d documents in %s\n", resp.Documents, resp.Duration.Round(1e6))
	fmt.Fprintf(w, "  clean:         %d\n", s.Clean)
	fmt.Fprintf(w, "  load failures: %d\n", s.LoadFailures)
	for _, fc := range s.Primary {
		fmt.Fprintf(w, "  %-14s %d\n", string(fc.Kind)+":", fc.Count)
	}
	fmt.Fprintf(w, "Report:  %s\n", resp.ReportPath)
	fmt.Fprintf(w, "Summary: %s\n", resp.SummaryPath)
}
