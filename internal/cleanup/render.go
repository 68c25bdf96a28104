package cleanup

import (
	"fmt"
	"strings"
	"time"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// RenderReport formats a cleanup report for the terminal.
func RenderReport(r *model.CleanupReport) string {
	var b strings.Builder
	b.WriteString("Memory Cleanup Report\n")
	b.WriteString("=====================\n\n")
	fmt.Fprintf(&b, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(&b, "Timestamp: %s\n", r.Timestamp.UTC().Format(time.RFC3339))
	if r.DryRun {
		b.WriteString("Mode:      dry run (no files were moved or deleted)\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Stale sessions relocated: %d\n", len(r.Relocated))
	fmt.Fprintf(&b, "Duplicate pairs flagged:  %d\n", len(r.DuplicatesFlagged))
	fmt.Fprintf(&b, "Completed tasks archived: %d\n", len(r.Archived))
	fmt.Fprintf(&b, "Bytes freed:              %d\n\n", r.BytesFreed)

	if len(r.Relocated) > 0 {
		b.WriteString("Relocated sessions:\n")
		for _, f := range r.Relocated {
			fmt.Fprintf(&b, "  %s (%d bytes)\n", f.RelPath, f.Size)
		}
		b.WriteString("\n")
	}

	if len(r.DuplicatesFlagged) > 0 {
		b.WriteString("Candidate duplicates (manual review required, nothing was merged):\n")
		for _, d := range r.DuplicatesFlagged {
			fmt.Fprintf(&b, "  %s: %s ~ %s (%.0f%% similar)\n", d.File, d.FirstID, d.SecondID, d.Similarity*100)
		}
		b.WriteString("\n")
	}

	if len(r.Archived) > 0 {
		b.WriteString("Archived task records:\n")
		for _, f := range r.Archived {
			fmt.Fprintf(&b, "  %s (%d bytes)\n", f.RelPath, f.Size)
		}
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("Errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  %s: %s\n", e.Path, e.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
