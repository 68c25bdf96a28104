// Package analytics produces read-only aggregate reports over the
// memory tree. One collection pass builds a Snapshot; report types are
// views of that aggregate and output formats are renderings of a view,
// so any report type composes with any format.
package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/edelzer/memory-toolkit/internal/memstore"
	"github.com/edelzer/memory-toolkit/internal/model"
)

// ValidReportTypes are the accepted --report values.
var ValidReportTypes = map[string]bool{
	"summary":  true,
	"detailed": true,
	"patterns": true,
	"growth":   true,
}

// ValidFormats are the accepted --format values.
var ValidFormats = map[string]bool{
	"text":     true,
	"json":     true,
	"markdown": true,
}

// Options configure one analysis run.
type Options struct {
	PeriodDays int
	Format     string
}

// Report is the rendered output of one run.
type Report struct {
	Type   string
	Format string
	Body   string
}

// Analyzer aggregates one store. It never mutates any file.
type Analyzer struct {
	store *memstore.Store
	now   func() time.Time
}

// New creates an Analyzer.
func New(store *memstore.Store) *Analyzer {
	return &Analyzer{store: store, now: time.Now}
}

// Analyze runs the collection pass and renders the requested report.
func (a *Analyzer) Analyze(reportType string, opts Options) (*Report, error) {
	if !ValidReportTypes[reportType] {
		return nil, fmt.Errorf("unknown report type %q, expected summary, detailed, patterns or growth", reportType)
	}
	if opts.Format == "" {
		opts.Format = "text"
	}
	if !ValidFormats[opts.Format] {
		return nil, fmt.Errorf("unknown format %q, expected text, json or markdown", opts.Format)
	}
	if opts.PeriodDays < 1 {
		return nil, fmt.Errorf("period must be a positive number of days, got %d", opts.PeriodDays)
	}

	snap, err := a.collect(opts.PeriodDays)
	if err != nil {
		return nil, err
	}

	var view interface{}
	switch reportType {
	case "summary":
		view = buildSummary(snap)
	case "detailed":
		view = buildDetailed(snap)
	case "patterns":
		view = buildPatterns(snap)
	case "growth":
		view = buildGrowth(snap)
	}

	var body string
	if opts.Format == "json" {
		b, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		body = string(b) + "\n"
	} else {
		body = render(view, opts.Format == "markdown")
	}
	return &Report{Type: reportType, Format: opts.Format, Body: body}, nil
}

// CategoryCount pairs a category with its file count and share.
type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// FamilyCount pairs a pattern family with its record count.
type FamilyCount struct {
	Family string `json:"family"`
	Count  int    `json:"count"`
}

// SummaryView is the summary report payload.
type SummaryView struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	PeriodDays      int             `json:"period_days"`
	TotalFiles      int             `json:"total_files"`
	TotalBytes      int64           `json:"total_bytes"`
	Categories      []CategoryCount `json:"categories"`
	SizeBuckets     BucketCounts    `json:"size_buckets"`
	PatternFamilies []FamilyCount   `json:"pattern_families"`
	RecentCount     int             `json:"recent_count"`
	TopReusable     []PatternEntry  `json:"top_reusable,omitempty"`
}

// DetailedView extends the summary with per-file recent activity and
// the deduplicated project list.
type DetailedView struct {
	SummaryView
	RecentFiles []model.FileInfo `json:"recent_files,omitempty"`
	Projects    []string         `json:"projects,omitempty"`
}

// FamilyPatterns is one family's full inventory.
type FamilyPatterns struct {
	Family   string         `json:"family"`
	Patterns []PatternEntry `json:"patterns,omitempty"`
}

// PatternsView is the patterns report payload.
type PatternsView struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Families    []FamilyPatterns `json:"families"`
}

// GrowthView is the growth report payload.
type GrowthView struct {
	GeneratedAt     time.Time `json:"generated_at"`
	PeriodDays      int       `json:"period_days"`
	TotalFiles      int       `json:"total_files"`
	RecentFiles     int       `json:"recent_files"`
	GrowthRate      string    `json:"growthRate"`
	AverageFileSize int64     `json:"average_file_size"`
	TotalPatterns   int       `json:"total_patterns"`
	Insights        []string  `json:"insights,omitempty"`
}

const topReusableCap = 10

func buildSummary(snap *Snapshot) SummaryView {
	view := SummaryView{
		GeneratedAt: snap.GeneratedAt,
		PeriodDays:  snap.PeriodDays,
		TotalFiles:  snap.TotalFiles,
		TotalBytes:  snap.TotalBytes,
		SizeBuckets: snap.Buckets,
		RecentCount: len(snap.Recent),
	}
	for _, cat := range model.Categories {
		count := snap.ByCategory[cat]
		percent := 0.0
		if snap.TotalFiles > 0 {
			percent = float64(count) / float64(snap.TotalFiles) * 100
		}
		view.Categories = append(view.Categories, CategoryCount{Category: cat, Count: count, Percent: percent})
	}
	for _, family := range Families {
		view.PatternFamilies = append(view.PatternFamilies, FamilyCount{Family: family, Count: len(snap.Patterns[family])})
	}
	for _, family := range Families {
		for _, entry := range snap.Patterns[family] {
			if isHighlyReusable(entry.Reusability) && len(view.TopReusable) < topReusableCap {
				view.TopReusable = append(view.TopReusable, entry)
			}
		}
	}
	return view
}

func buildDetailed(snap *Snapshot) DetailedView {
	return DetailedView{
		SummaryView: buildSummary(snap),
		RecentFiles: snap.Recent,
		Projects:    snap.Projects,
	}
}

func buildPatterns(snap *Snapshot) PatternsView {
	view := PatternsView{GeneratedAt: snap.GeneratedAt}
	for _, family := range Families {
		view.Families = append(view.Families, FamilyPatterns{Family: family, Patterns: snap.Patterns[family]})
	}
	return view
}

func buildGrowth(snap *Snapshot) GrowthView {
	view := GrowthView{
		GeneratedAt:   snap.GeneratedAt,
		PeriodDays:    snap.PeriodDays,
		TotalFiles:    snap.TotalFiles,
		RecentFiles:   len(snap.Recent),
		GrowthRate:    "0.00",
		TotalPatterns: snap.TotalPatterns(),
	}
	rate := 0.0
	if snap.TotalFiles > 0 {
		rate = float64(len(snap.Recent)) / float64(snap.TotalFiles) * 100
		view.GrowthRate = fmt.Sprintf("%.2f", rate)
		view.AverageFileSize = snap.TotalBytes / int64(snap.TotalFiles)
	}
	if snap.TotalFiles > 0 && float64(snap.Buckets.Large)/float64(snap.TotalFiles) > 0.20 {
		view.Insights = append(view.Insights, fmt.Sprintf("%d of %d files are large (>30 KiB); consider splitting or archiving them", snap.Buckets.Large, snap.TotalFiles))
	}
	if rate > 50 {
		view.Insights = append(view.Insights, fmt.Sprintf("high growth (%.2f%% of files touched in %d days): memory tree is in active use", rate, snap.PeriodDays))
	}
	if rate < 10 {
		view.Insights = append(view.Insights, fmt.Sprintf("low growth (%.2f%% of files touched in %d days): tree is a candidate for archival", rate, snap.PeriodDays))
	}
	view.Insights = append(view.Insights, fmt.Sprintf("%d patterns accumulated across all families", view.TotalPatterns))
	return view
}

func isHighlyReusable(label string) bool {
	switch label {
	case "high", "High", "very-high", "extensive":
		return true
	}
	return false
}
