package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edelzer/memory-toolkit/internal/archive"
	"github.com/edelzer/memory-toolkit/internal/memstore"
	"github.com/edelzer/memory-toolkit/internal/pathval"
)

// NewArchiveCmd builds the memory-archive command.
// Exit codes: 0 success, 1 invalid args or project not found,
// 2 archive operation failed, 3 path validation failed.
func NewArchiveCmd() *cobra.Command {
	var (
		project  string
		compress bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "memory-archive --project <name>",
		Short: "Archive every memory record referencing a project",
		Long:  "Copies every memory record referencing the project into a timestamped bundle under memories/archives, writes a report, then deletes the originals. Use --dry-run to preview without touching the tree.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage is re-emitted for argument errors only; from here on
			// failures are operational.
			cmd.SilenceUsage = true

			root, err := workspaceRoot()
			if err != nil {
				return err
			}
			store, err := memstore.New(root)
			if err != nil {
				return fail(2, err)
			}

			result, err := archive.New(store).Archive(project, archive.Options{
				DryRun:   dryRun,
				Compress: compress,
			})
			if err != nil {
				var nf *archive.NotFoundError
				if errors.As(err, &nf) {
					return fail(1, err)
				}
				var ve *pathval.ValidationError
				if errors.As(err, &ve) {
					return fail(3, err)
				}
				return fail(2, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), archive.RenderReport(result))
			if !result.Success {
				return failf(2, "archive completed with %d error(s); see report above", len(result.Errors))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ archived %d file(s) for project %s\n", result.FilesArchived, project)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name (required)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Compress the bundle (not yet implemented)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without copying or deleting anything")
	cmd.MarkFlagRequired("project")

	return cmd
}
