// Package archive moves every memory record referencing a project into
// a timestamped bundle under memories/archives. Archival is not
// transactional: copy then delete, per-file failures recorded, and the
// generated report is the source of truth for partial runs. A re-run is
// safe because already-deleted sources no longer match the scan.
package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/edelzer/memory-toolkit/internal/memstore"
	"github.com/edelzer/memory-toolkit/internal/memxml"
	"github.com/edelzer/memory-toolkit/internal/model"
)

// ReportFileName is the plain-text report written into each bundle.
const ReportFileName = "archive-report.txt"

// NotFoundError means the project has no project-knowledge record.
type NotFoundError struct {
	Project      string
	ExpectedPath string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found: expected a record at %s", e.Project, e.ExpectedPath)
}

// Options control one archive run.
type Options struct {
	DryRun   bool
	Compress bool
}

// Archiver performs project archival over one store.
type Archiver struct {
	store *memstore.Store
	now   func() time.Time
}

// New creates an Archiver.
func New(store *memstore.Store) *Archiver {
	return &Archiver{store: store, now: time.Now}
}

// Archive bundles every record referencing the project and removes the
// originals. DryRun performs every step except directory creation, file
// copies and deletions.
func (a *Archiver) Archive(project string, opts Options) (*model.ArchiveResult, error) {
	started := a.now()
	result := &model.ArchiveResult{
		RunID:     ulid.Make().String(),
		Project:   project,
		Timestamp: started,
		DryRun:    opts.DryRun,
	}
	if opts.Compress {
		result.Notes = append(result.Notes, "compression requested but not yet implemented; bundle left uncompressed")
	}

	mainRel := "project-knowledge/" + project + ".xml"
	exists, err := a.store.Exists(mainRel)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Project: project, ExpectedPath: mainRel}
	}

	candidates, scanErrs := a.findReferences(project)
	result.Errors = append(result.Errors, scanErrs...)

	// A brand-new project may have no cross-references yet. That is
	// success with zero files, and no bundle is created.
	if len(candidates) == 0 {
		result.Success = len(result.Errors) == 0
		return result, nil
	}
	candidates = append([]string{mainRel}, candidates...)

	stamp := started.UTC().Format(time.RFC3339)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	bundleDir := a.store.ArchivePath(project + "-" + stamp)
	result.BundlePath = bundleDir

	for _, rel := range candidates {
		info, err := a.store.Stat(rel)
		if err != nil {
			result.Errors = append(result.Errors, model.FileError{Path: rel, Message: err.Error()})
			continue
		}
		if !opts.DryRun {
			if _, err := a.store.CopyToArchive(rel, bundleDir); err != nil {
				result.Errors = append(result.Errors, model.FileError{Path: rel, Message: fmt.Sprintf("copy: %v", err)})
				continue
			}
		}
		result.Files = append(result.Files, *info)
		result.TotalBytes += info.Size
	}
	result.FilesArchived = len(result.Files)

	if !opts.DryRun {
		if err := a.store.WriteArchiveFile(bundleDir, ReportFileName, []byte(renderReport(result))); err != nil {
			result.Errors = append(result.Errors, model.FileError{Path: ReportFileName, Message: fmt.Sprintf("write report: %v", err)})
		}
		// Delete only what was successfully copied. A failed delete is
		// recorded but never rolls back copies or earlier deletes.
		for _, f := range result.Files {
			if err := a.store.Remove(f.RelPath); err != nil {
				result.Errors = append(result.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("delete: %v", err)})
			}
		}
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// findReferences scans every category except project-knowledge for
// records linking to the project. Per-file read and parse failures are
// collected, never fatal.
func (a *Archiver) findReferences(project string) ([]string, []model.FileError) {
	var matches []string
	var errs []model.FileError
	for _, cat := range model.Categories {
		if cat == "project-knowledge" {
			continue
		}
		files, err := a.store.ScanCategory(cat)
		if err != nil {
			errs = append(errs, model.FileError{Path: cat, Message: err.Error()})
			continue
		}
		for _, f := range files {
			data, err := a.store.Read(f.RelPath)
			if err != nil {
				errs = append(errs, model.FileError{Path: f.RelPath, Message: err.Error()})
				continue
			}
			doc, err := memxml.Parse(data)
			if err != nil {
				errs = append(errs, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("parse: %v", err)})
				continue
			}
			if doc.ReferencesProject(project) {
				matches = append(matches, f.RelPath)
			}
		}
	}
	return matches, errs
}
