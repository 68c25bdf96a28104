package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edelzer/memory-toolkit/internal/cleanup"
	"github.com/edelzer/memory-toolkit/internal/config"
	"github.com/edelzer/memory-toolkit/internal/memstore"
)

// NewCleanupCmd builds the memory-cleanup command.
// Exit codes: 0 success, 1 invalid arguments, 2 cleanup failed.
func NewCleanupCmd() *cobra.Command {
	var (
		age         int
		sessions    bool
		consolidate bool
		tasks       bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "memory-cleanup",
		Short: "Relocate stale sessions, flag duplicate patterns, archive completed tasks",
		Long:  "Maintenance over memories/: stale session-context records move to archives/session-cleanup, near-duplicate pattern entries are flagged for manual review (never merged), and completed task records are archived. With no selector flag, all three run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("age") && age < 1 {
				return failf(1, "age must be a positive number of days, got %d", age)
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
			if !cmd.Flags().Changed("age") {
				age = settings.Cleanup.StaleAgeDays
			}

			store, err := memstore.New(root)
			if err != nil {
				return fail(2, err)
			}
			report, err := cleanup.New(store, settings.Consolidation.Threshold).Run(cleanup.Options{
				AgeDays:     age,
				Sessions:    sessions,
				Consolidate: consolidate,
				Tasks:       tasks,
				DryRun:      dryRun,
			})
			if err != nil {
				return fail(2, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), cleanup.RenderReport(report))
			if !report.Success {
				return failf(2, "cleanup completed with %d error(s); see report above", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 30, "Session staleness threshold in days")
	cmd.Flags().BoolVar(&sessions, "sessions", false, "Only relocate stale session records")
	cmd.Flags().BoolVar(&consolidate, "consolidate", false, "Only flag candidate duplicate patterns")
	cmd.Flags().BoolVar(&tasks, "tasks", false, "Only archive completed task records")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without moving or deleting anything")

	return cmd
}
