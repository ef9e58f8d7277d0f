package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/app"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the application workbooks linked from a CTCAC index page",
	Long: `Reads the index page, collects every link to an .xlsx, .xlsm or .xls
file and downloads the ones not already in the output directory. Requests
are rate limited (fetch.rps). A failed download is reported and the run
continues.`,
	Args: cobra.NoArgs,
	RunE: runFetchCmd,
}

var (
	fetchURL string
	fetchOut string
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "Index page URL (defaults to fetch.index_url)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Download directory (defaults to paths.downloads_dir)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return runApp(cmd, cfg, func(ctx context.Context, a *app.Application) error {
		result, err := a.Fetch(ctx, fetchURL, fetchOut)
		if result == nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Found %d workbooks: %d downloaded, %d already present, %d failed\n",
			result.Found, len(result.Downloaded), len(result.Skipped), len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(w, "  failed %s: %s\n", f.FileName, f.Error)
		}
		if err == nil && len(result.Failed) > 0 {
			return fmt.Errorf("%d downloads failed", len(result.Failed))
		}
		return err
	})
}
