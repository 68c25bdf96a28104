package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edelzer/memory-toolkit/internal/analytics"
	"github.com/edelzer/memory-toolkit/internal/config"
	"github.com/edelzer/memory-toolkit/internal/memstore"
)

// NewAnalyticsCmd builds the memory-analytics command.
// Exit codes: 0 success, 1 invalid arguments, 2 analysis failed.
func NewAnalyticsCmd() *cobra.Command {
	var (
		reportType string
		period     int
		format     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "memory-analytics",
		Short: "Report aggregate statistics over the memory tree",
		Long:  "Read-only analytics over memories/: file counts, category distribution, size buckets, recent activity and pattern inventories. Never modifies any file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors are reported before any I/O, with usage.
			if !analytics.ValidReportTypes[reportType] {
				return failf(1, "unknown report type %q, expected summary, detailed, patterns or growth", reportType)
			}
			if !analytics.ValidFormats[format] {
				return failf(1, "unknown format %q, expected text, json or markdown", format)
			}
			if cmd.Flags().Changed("period") && period < 1 {
				return failf(1, "period must be a positive number of days, got %d", period)
			}
			cmd.SilenceUsage = true

			root, err := workspaceRoot()
			if err != nil {
				return err
			}
			settings, err := config.Load(root)
			if err != nil {
				return fail(2, err)
			}
			if !cmd.Flags().Changed("period") {
				period = settings.Analytics.PeriodDays
			}

			store, err := memstore.New(root)
			if err != nil {
				return fail(2, err)
			}
			report, err := analytics.New(store).Analyze(reportType, analytics.Options{
				PeriodDays: period,
				Format:     format,
			})
			if err != nil {
				return fail(2, err)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(report.Body), 0o644); err != nil {
					return failf(2, "write report to %s: %v", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s report written to %s\n", reportType, output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Body)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportType, "report", "summary", "Report type: summary, detailed, patterns or growth")
	cmd.Flags().IntVar(&period, "period", 30, "Lookback window in days")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or markdown")
	cmd.Flags().StringVar(&output, "output", "", "Write the report to a file instead of stdout")

	return cmd
}
