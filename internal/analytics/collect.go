package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/edelzer/memory-toolkit/internal/memxml"
	"github.com/edelzer/memory-toolkit/internal/model"
)

// Families are the pattern inventories extracted from
// development-patterns, classified by filename substring.
var Families = []string{"debugging", "security", "test", "task"}

// PatternEntry is one extracted sub-record plus its source file.
type PatternEntry struct {
	File string `json:"file"`
	memxml.PatternRecord
}

// BucketCounts is the size histogram.
type BucketCounts struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// Snapshot is the aggregate every report type is a view of. It is
// ephemeral: derived per run, never persisted by this package.
type Snapshot struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	PeriodDays  int                       `json:"period_days"`
	TotalFiles  int                       `json:"total_files"`
	TotalBytes  int64                     `json:"total_bytes"`
	ByCategory  map[string]int            `json:"by_category"`
	Buckets     BucketCounts              `json:"size_buckets"`
	Recent      []model.FileInfo          `json:"recent"`
	Patterns    map[string][]PatternEntry `json:"patterns"`
	Projects    []string                  `json:"projects"`
	Errors      []model.FileError         `json:"errors,omitempty"`
}

// TotalPatterns is the accumulated pattern count across all families.
func (s *Snapshot) TotalPatterns() int {
	n := 0
	for _, entries := range s.Patterns {
		n += len(entries)
	}
	return n
}

// collect walks the memory tree once and builds the aggregate. File
// lists come back sorted from the store, so two runs over an unchanged
// tree differ only in GeneratedAt.
func (a *Analyzer) collect(periodDays int) (*Snapshot, error) {
	snap := &Snapshot{
		GeneratedAt: a.now(),
		PeriodDays:  periodDays,
		ByCategory:  map[string]int{},
		Patterns:    map[string][]PatternEntry{},
	}
	cutoff := snap.GeneratedAt.AddDate(0, 0, -periodDays)

	files, err := a.store.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("scan memory tree: %w", err)
	}

	projects := map[string]bool{}
	for _, f := range files {
		snap.TotalFiles++
		snap.TotalBytes += f.Size
		snap.ByCategory[f.Category]++
		switch model.SizeBucket(f.Size) {
		case "small":
			snap.Buckets.Small++
		case "medium":
			snap.Buckets.Medium++
		default:
			snap.Buckets.Large++
		}
		if f.Modified.After(cutoff) {
			snap.Recent = append(snap.Recent, f)
		}

		data, err := a.store.Read(f.RelPath)
		if err != nil {
			snap.Errors = append(snap.Errors, model.FileError{Path: f.RelPath, Message: err.Error()})
			continue
		}
		doc, err := memxml.Parse(data)
		if err != nil {
			snap.Errors = append(snap.Errors, model.FileError{Path: f.RelPath, Message: fmt.Sprintf("parse: %v", err)})
			continue
		}
		for _, ref := range doc.ProjectRefs() {
			projects[ref] = true
		}
		if f.Category == "development-patterns" {
			if family := classifyFamily(f.RelPath); family != "" {
				for _, rec := range doc.Patterns() {
					snap.Patterns[family] = append(snap.Patterns[family], PatternEntry{File: f.RelPath, PatternRecord: rec})
				}
			}
		}
	}

	for name := range projects {
		snap.Projects = append(snap.Projects, name)
	}
	sort.Strings(snap.Projects)
	return snap, nil
}

// classifyFamily maps a development-patterns filename to its pattern
// family, or "" when it belongs to none.
func classifyFamily(relPath string) string {
	name := strings.ToLower(relPath[strings.LastIndex(relPath, "/")+1:])
	for _, family := range Families {
		if strings.Contains(name, family) {
			return family
		}
	}
	return ""
}
