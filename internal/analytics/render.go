package analytics

import (
	"fmt"
	"strings"
	"time"
)

// renderer writes either plain-text or markdown sections over the same
// view data. The format never changes which fields appear.
type renderer struct {
	b        strings.Builder
	markdown bool
}

func (r *renderer) title(s string) {
	if r.markdown {
		fmt.Fprintf(&r.b, "# %s\n\n", s)
		return
	}
	fmt.Fprintf(&r.b, "%s\n%s\n\n", s, strings.Repeat("=", len(s)))
}

func (r *renderer) section(s string) {
	if r.markdown {
		fmt.Fprintf(&r.b, "## %s\n\n", s)
		return
	}
	fmt.Fprintf(&r.b, "%s\n%s\n", s, strings.Repeat("-", len(s)))
}

func (r *renderer) field(name string, value interface{}) {
	if r.markdown {
		fmt.Fprintf(&r.b, "- **%s**: %v\n", name, value)
		return
	}
	fmt.Fprintf(&r.b, "  %s: %v\n", name, value)
}

func (r *renderer) item(format string, args ...interface{}) {
	if r.markdown {
		fmt.Fprintf(&r.b, "- "+format+"\n", args...)
		return
	}
	fmt.Fprintf(&r.b, "  "+format+"\n", args...)
}

func (r *renderer) blank() { r.b.WriteString("\n") }

func render(view interface{}, markdown bool) string {
	r := &renderer{markdown: markdown}
	switch v := view.(type) {
	case SummaryView:
		r.summary(v)
	case DetailedView:
		r.summary(v.SummaryView)
		r.detailed(v)
	case PatternsView:
		r.patterns(v)
	case GrowthView:
		r.growth(v)
	}
	return r.b.String()
}

func (r *renderer) summary(v SummaryView) {
	r.title("Memory Analytics Summary")
	r.field("Generated", v.GeneratedAt.UTC().Format(time.RFC3339))
	r.field("Period", fmt.Sprintf("%d days", v.PeriodDays))
	r.field("Total files", v.TotalFiles)
	r.field("Total size", fmt.Sprintf("%d bytes", v.TotalBytes))
	r.field("Recently modified", v.RecentCount)
	r.blank()

	r.section("Categories")
	for _, c := range v.Categories {
		r.item("%s: %d (%.1f%%)", c.Category, c.Count, c.Percent)
	}
	r.blank()

	r.section("Size distribution")
	r.item("small (<10 KiB): %d", v.SizeBuckets.Small)
	r.item("medium (10-30 KiB): %d", v.SizeBuckets.Medium)
	r.item("large (>30 KiB): %d", v.SizeBuckets.Large)
	r.blank()

	r.section("Pattern families")
	for _, f := range v.PatternFamilies {
		r.item("%s: %d", f.Family, f.Count)
	}
	r.blank()

	if len(v.TopReusable) > 0 {
		r.section("Top reusable patterns")
		for _, p := range v.TopReusable {
			r.item("%s (%s, %s) from %s", p.ID, p.Kind, p.Reusability, p.File)
		}
		r.blank()
	}
}

func (r *renderer) detailed(v DetailedView) {
	r.section("Recent activity")
	if len(v.RecentFiles) == 0 {
		r.item("no files modified in the period")
	}
	for _, f := range v.RecentFiles {
		r.item("%s — %s, %d bytes", f.RelPath, f.Modified.UTC().Format(time.RFC3339), f.Size)
	}
	r.blank()

	r.section("Projects")
	if len(v.Projects) == 0 {
		r.item("no project references found")
	}
	for _, p := range v.Projects {
		r.item("%s", p)
	}
	r.blank()
}

func (r *renderer) patterns(v PatternsView) {
	r.title("Memory Pattern Inventory")
	r.field("Generated", v.GeneratedAt.UTC().Format(time.RFC3339))
	r.blank()
	for _, family := range v.Families {
		r.section(family.Family)
		if len(family.Patterns) == 0 {
			r.item("none")
		}
		for _, p := range family.Patterns {
			r.item("%s [%s] category=%s reusability=%s", p.ID, p.Kind, orDash(p.Category), orDash(p.Reusability))
			if p.Description != "" {
				r.item("  %s", p.Description)
			}
		}
		r.blank()
	}
}

func (r *renderer) growth(v GrowthView) {
	r.title("Memory Growth Report")
	r.field("Generated", v.GeneratedAt.UTC().Format(time.RFC3339))
	r.field("Period", fmt.Sprintf("%d days", v.PeriodDays))
	r.field("Total files", v.TotalFiles)
	r.field("Modified in period", v.RecentFiles)
	r.field("Growth rate", v.GrowthRate+"%")
	r.field("Average file size", fmt.Sprintf("%d bytes", v.AverageFileSize))
	r.field("Accumulated patterns", v.TotalPatterns)
	r.blank()

	if len(v.Insights) > 0 {
		r.section("Insights")
		for _, insight := range v.Insights {
			r.item("%s", insight)
		}
		r.blank()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
