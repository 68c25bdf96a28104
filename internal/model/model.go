// Package model defines the memory tree layout and shared report types.
package model

import "time"

// Memory tree layout constants.
const (
	MemoryDirName   = "memories"
	ArchiveDirName  = "archives"
	SessionCleanup  = "session-cleanup"
	MaxFileSize     = 50 * 1024 // bytes
	SmallFileLimit  = 10 * 1024
	MediumFileLimit = 30 * 1024
)

// Categories partition memory records by purpose. The order is fixed so
// that scans and reports are deterministic.
var Categories = []string{
	"session-context",
	"protocol-compliance",
	"agent-coordination",
	"development-patterns",
	"client-context",
	"project-knowledge",
}

// ValidCategories is the category whitelist.
var ValidCategories = map[string]bool{
	"session-context":      true,
	"protocol-compliance":  true,
	"agent-coordination":   true,
	"development-patterns": true,
	"client-context":       true,
	"project-knowledge":    true,
}

// FileInfo describes one memory record on disk.
type FileInfo struct {
	RelPath  string    `json:"path"` // relative to the memories root
	Category string    `json:"category"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// FileError records a single non-fatal per-file failure.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ArchiveResult is the outcome of one archive run. The report written
// into the bundle is rendered from this struct; on partial failure the
// result, not the tree, is the source of truth for what succeeded.
type ArchiveResult struct {
	RunID         string      `json:"run_id"`
	Project       string      `json:"project"`
	Timestamp     time.Time   `json:"timestamp"`
	Success       bool        `json:"success"`
	DryRun        bool        `json:"dry_run"`
	FilesArchived int         `json:"files_archived"`
	TotalBytes    int64       `json:"total_bytes"`
	BundlePath    string      `json:"bundle_path,omitempty"`
	Files         []FileInfo  `json:"files,omitempty"`
	Errors        []FileError `json:"errors,omitempty"`
	Notes         []string    `json:"notes,omitempty"`
}

// CleanupReport is shared by all cleanup sub-operations.
type CleanupReport struct {
	RunID             string          `json:"run_id"`
	Timestamp         time.Time       `json:"timestamp"`
	Success           bool            `json:"success"`
	DryRun            bool            `json:"dry_run"`
	Relocated         []FileInfo      `json:"relocated,omitempty"`
	DuplicatesFlagged []DuplicatePair `json:"duplicates_flagged,omitempty"`
	Archived          []FileInfo      `json:"archived,omitempty"`
	BytesFreed        int64           `json:"bytes_freed"`
	Errors            []FileError     `json:"errors,omitempty"`
}

// DuplicatePair is a candidate duplicate flagged for manual review.
// Consolidation never merges automatically.
type DuplicatePair struct {
	File       string  `json:"file"`
	FirstID    string  `json:"first_id"`
	SecondID   string  `json:"second_id"`
	Similarity float64 `json:"similarity"`
}

// SizeBucket classifies a file size as small, medium or large.
func SizeBucket(size int64) string {
	switch {
	case size < SmallFileLimit:
		return "small"
	case size <= MediumFileLimit:
		return "medium"
	default:
		return "large"
	}
}
