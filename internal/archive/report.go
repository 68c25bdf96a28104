package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// renderReport formats the plain-text bundle report.
func renderReport(r *model.ArchiveResult) string {
	var b strings.Builder
	b.WriteString("Memory Archive Report\n")
	b.WriteString("=====================\n\n")
	fmt.Fprintf(&b, "Run ID:    %s\n", r.RunID)
	fmt.Fprintf(&b, "Project:   %s\n", r.Project)
	fmt.Fprintf(&b, "Timestamp: %s\n", r.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Bundle:    %s\n", r.BundlePath)
	if r.DryRun {
		b.WriteString("Mode:      dry run (no files were copied or deleted)\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Files archived: %d\n", r.FilesArchived)
	fmt.Fprintf(&b, "Total size:     %d bytes\n\n", r.TotalBytes)

	if len(r.Files) > 0 {
		b.WriteString("Archived files:\n")
		for _, f := range r.Files {
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

	for _, note := range r.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}
	return b.String()
}

// RenderReport exposes the bundle report text for CLI output.
func RenderReport(r *model.ArchiveResult) string { return renderReport(r) }
