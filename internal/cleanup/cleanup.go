// Package cleanup relocates stale session records, flags near-duplicate
// pattern entries for manual review, and archives completed task
// records. Like archival, cleanup is non-transactional: per-file
// failures are recorded in the report and never abort the batch.
package cleanup

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/edelzer/memory-toolkit/internal/memstore"
	"github.com/edelzer/memory-toolkit/internal/memxml"
	"github.com/edelzer/memory-toolkit/internal/model"
)

// Options select which sub-operations one run performs.
type Options struct {
	AgeDays     int
	Sessions    bool
	Consolidate bool
	Tasks       bool
	DryRun      bool
}

// Cleaner performs maintenance over one store.
type Cleaner struct {
	store     *memstore.Store
	threshold float64 // similarity ratio at or above which a pair is flagged
	now       func() time.Time
}

// New creates a Cleaner with the given duplicate-flagging threshold.
func New(store *memstore.Store, threshold float64) *Cleaner {
	return &Cleaner{store: store, threshold: threshold, now: time.Now}
}

// Run executes the selected sub-operations into one shared report.
// With no selector set, all three run.
func (c *Cleaner) Run(opts Options) (*model.CleanupReport, error) {
	report := &model.CleanupReport{
		RunID:     ulid.Make().String(),
		Timestamp: c.now(),
		DryRun:    opts.DryRun,
	}
	all := !opts.Sessions && !opts.Consolidate && !opts.Tasks

	if all || opts.Sessions {
		c.cleanStaleSessions(opts.AgeDays, opts.DryRun, report)
	}
	if all || opts.Consolidate {
		c.consolidatePatterns(report)
	}
	if all || opts.Tasks {
		c.archiveCompletedTasks(opts.DryRun, report)
	}

	report.Success = len(report.Errors) == 0
	return report, nil
}

// CleanStaleSessions relocates session-context records older than
// ageDays into memories/archives/session-cleanup.
func (c *Cleaner) CleanStaleSessions(ageDays int, dryRun bool) (*model.CleanupReport, error) {
	return c.Run(Options{AgeDays: ageDays, Sessions: true, DryRun: dryRun})
}

// ConsolidatePatterns flags candidate duplicate pattern records. It
// never merges or deletes: consolidation is manual-review-only, since
// an automatic merge of knowledge records risks silent information
// loss. dryRun is accepted for interface symmetry; the operation never
// writes either way.
func (c *Cleaner) ConsolidatePatterns(dryRun bool) (*model.CleanupReport, error) {
	return c.Run(Options{Consolidate: true, DryRun: dryRun})
}

// ArchiveCompletedTasks relocates task records carrying a completed
// marker, the same way stale sessions are relocated.
func (c *Cleaner) ArchiveCompletedTasks(dryRun bool) (*model.CleanupReport, error) {
	return c.Run(Options{Tasks: true, DryRun: dryRun})
}

func (c *Cleaner) cleanStaleSessions(ageDays int, dryRun bool, report *model.CleanupReport) {
	files, err := c.store.ScanCategory("session-context")
	if err != nil {
		report.Errors = append(report.Errors, model.FileError{Path: "session-context", Message: err.Error()})
		return
	}
	cutoff := c.now().AddDate(0, 0, -ageDays)

	for _, f := range files {
		lastUpdated := f.Modified
		// An embedded timestamp wins over mtime; agents rewrite files
		// without necessarily touching the recorded session time.
		if data, err := c.store.Read(f.RelPath); err == nil {
			if doc, err := memxml.Parse(data); err == nil {
				if t, ok := doc.LastUpdated(); ok {
					lastUpdated = t
				}
			}
		}
		if !lastUpdated.Before(cutoff) {
			continue
		}
		if c.relocate(f, dryRun, report) {
			report.Relocated = append(report.Relocated, f)
			report.BytesFreed += f.Size
		}
	}
}

func (c *Cleaner) consolidatePatterns(report *model.CleanupReport) {
	files, err := c.store.ScanCategory("development-patterns")
	if err != nil {
		report.Errors = append(report.Errors, model.FileError{Path: "development-patterns", Message: err.Error()})
		return
	}
	for _, f := range files {
		data, err := c.store.Read(f.RelPath)
		if err != nil {
			report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: err.Error()})
			continue
		}
		doc, err := memxml.Parse(data)
		if err != nil {
			report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("parse: %v", err)})
			continue
		}
		patterns := doc.Patterns()
		for i := 0; i < len(patterns); i++ {
			for j := i + 1; j < len(patterns); j++ {
				ratio := similarity(patterns[i].Description, patterns[j].Description)
				if ratio >= c.threshold {
					report.DuplicatesFlagged = append(report.DuplicatesFlagged, model.DuplicatePair{
						File:       f.RelPath,
						FirstID:    patternID(patterns[i], i),
						SecondID:   patternID(patterns[j], j),
						Similarity: ratio,
					})
				}
			}
		}
	}
}

func (c *Cleaner) archiveCompletedTasks(dryRun bool, report *model.CleanupReport) {
	files, err := c.store.ScanCategory("development-patterns")
	if err != nil {
		report.Errors = append(report.Errors, model.FileError{Path: "development-patterns", Message: err.Error()})
		return
	}
	for _, f := range files {
		// Only task-status records are candidates; other pattern files
		// carry a status field with different semantics.
		if !strings.Contains(strings.ToLower(f.RelPath), "task") {
			continue
		}
		data, err := c.store.Read(f.RelPath)
		if err != nil {
			report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: err.Error()})
			continue
		}
		doc, err := memxml.Parse(data)
		if err != nil {
			report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("parse: %v", err)})
			continue
		}
		if !doc.IsCompleted() {
			continue
		}
		if c.relocate(f, dryRun, report) {
			report.Archived = append(report.Archived, f)
			report.BytesFreed += f.Size
		}
	}
}

// relocate copies a file into the session-cleanup archive and deletes
// the original. In dry-run mode it only reports what would move.
func (c *Cleaner) relocate(f model.FileInfo, dryRun bool, report *model.CleanupReport) bool {
	if dryRun {
		return true
	}
	dest := c.store.ArchivePath(model.SessionCleanup)
	if _, err := c.store.CopyToArchive(f.RelPath, dest); err != nil {
		report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("copy: %v", err)})
		return false
	}
	if err := c.store.Remove(f.RelPath); err != nil {
		report.Errors = append(report.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("delete: %v", err)})
		return false
	}
	return true
}

func patternID(p memxml.PatternRecord, index int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("%s#%d", p.Kind, index)
}
