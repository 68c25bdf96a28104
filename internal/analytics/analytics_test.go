package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edelzer/memory-toolkit/internal/memstore"
)

func newTestAnalyzer(t *testing.T) (*Analyzer, *memstore.Store) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "memories"), 0o755))
	store, err := memstore.New(root)
	require.NoError(t, err)
	return New(store), store
}

func write(t *testing.T, store *memstore.Store, rel, content string) {
	t.Helper()
	abs := filepath.Join(store.MemoryRoot(), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func seedTree(t *testing.T, store *memstore.Store) {
	write(t, store, "session-context/current.xml", "<session><project>foo</project></session>")
	write(t, store, "project-knowledge/foo.xml", "<project-knowledge><name>foo</name></project-knowledge>")
	write(t, store, "client-context/acme.xml", "<client><project-ref>bar</project-ref></client>")
	write(t, store, "development-patterns/debugging-solutions.xml", `<patterns>
		<solution id="sol-1" category="io" reusability="high"><description>Retry with backoff</description></solution>
		<solution id="sol-2" category="io" reusability="low"><description>Fail fast on config errors</description></solution>
	</patterns>`)
	write(t, store, "development-patterns/test-strategies.xml", `<patterns>
		<strategy id="str-1" reusability="high"><description>Table-driven tests</description></strategy>
	</patterns>`)
}

func TestSummaryCounts(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	snap, err := a.collect(30)
	require.NoError(t, err)

	assert.Equal(t, 5, snap.TotalFiles)
	assert.Equal(t, 2, snap.ByCategory["development-patterns"])
	assert.Equal(t, 5, snap.Buckets.Small)
	assert.Len(t, snap.Recent, 5)
	assert.Equal(t, []string{"bar", "foo"}, snap.Projects)
	assert.Len(t, snap.Patterns["debugging"], 2)
	assert.Len(t, snap.Patterns["test"], 1)
	assert.Equal(t, 3, snap.TotalPatterns())

	view := buildSummary(snap)
	assert.Equal(t, 5, view.TotalFiles)
	assert.Len(t, view.TopReusable, 2) // sol-1 and str-1 are flagged high
	assert.InDelta(t, 40.0, view.Categories[3].Percent, 0.001)
}

func TestAnalyzeNeverMutates(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	before := map[string]int64{}
	filepath.Walk(store.MemoryRoot(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			before[path] = info.Size()
		}
		return nil
	})

	_, err := a.Analyze("detailed", Options{PeriodDays: 30, Format: "markdown"})
	require.NoError(t, err)

	after := map[string]int64{}
	filepath.Walk(store.MemoryRoot(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			after[path] = info.Size()
		}
		return nil
	})
	assert.Equal(t, before, after)
}

func TestDeterminismExceptTimestamp(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	// Pin the clock so the only nondeterministic field is controlled.
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	first, err := a.Analyze("summary", Options{PeriodDays: 30, Format: "json"})
	require.NoError(t, err)
	second, err := a.Analyze("summary", Options{PeriodDays: 30, Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)

	// With a moving clock, the bodies differ only in generated_at.
	a.now = time.Now
	third, _ := a.Analyze("summary", Options{PeriodDays: 30, Format: "json"})
	var f, th map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(first.Body), &f))
	require.NoError(t, json.Unmarshal([]byte(third.Body), &th))
	delete(f, "generated_at")
	delete(th, "generated_at")
	assert.Equal(t, f, th)
}

func TestReportFormatOrthogonality(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	for _, reportType := range []string{"summary", "detailed", "patterns", "growth"} {
		for _, format := range []string{"text", "json", "markdown"} {
			report, err := a.Analyze(reportType, Options{PeriodDays: 30, Format: format})
			require.NoError(t, err, "%s/%s", reportType, format)
			assert.NotEmpty(t, report.Body, "%s/%s", reportType, format)
		}
	}
}

func TestGrowthAllRecent(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	report, err := a.Analyze("growth", Options{PeriodDays: 7, Format: "json"})
	require.NoError(t, err)

	var view GrowthView
	require.NoError(t, json.Unmarshal([]byte(report.Body), &view))
	assert.Equal(t, "100.00", view.GrowthRate)
	assert.Equal(t, 5, view.TotalFiles)
	assert.Equal(t, 3, view.TotalPatterns)
	// All files touched today reads as active use.
	assert.True(t, hasInsight(view.Insights, "active use"))
}

func TestGrowthStaleTree(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	old := time.Now().AddDate(0, 0, -90)
	filepath.Walk(store.MemoryRoot(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			os.Chtimes(path, old, old)
		}
		return nil
	})

	report, err := a.Analyze("growth", Options{PeriodDays: 7, Format: "json"})
	require.NoError(t, err)

	var view GrowthView
	require.NoError(t, json.Unmarshal([]byte(report.Body), &view))
	assert.Equal(t, "0.00", view.GrowthRate)
	assert.True(t, hasInsight(view.Insights, "archival"))
}

func TestGrowthEmptyTree(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	report, err := a.Analyze("growth", Options{PeriodDays: 7, Format: "json"})
	require.NoError(t, err)

	var view GrowthView
	require.NoError(t, json.Unmarshal([]byte(report.Body), &view))
	assert.Equal(t, "0.00", view.GrowthRate)
	assert.Equal(t, int64(0), view.AverageFileSize)
}

func TestInvalidReportAndFormat(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	_, err := a.Analyze("weekly", Options{PeriodDays: 30, Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")

	_, err = a.Analyze("summary", Options{PeriodDays: 30, Format: "csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestMarkdownAndTextRenderSameFields(t *testing.T) {
	a, store := newTestAnalyzer(t)
	seedTree(t, store)

	text, err := a.Analyze("summary", Options{PeriodDays: 30, Format: "text"})
	require.NoError(t, err)
	md, err := a.Analyze("summary", Options{PeriodDays: 30, Format: "markdown"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md.Body, "# "))
	assert.False(t, strings.HasPrefix(text.Body, "# "))
	for _, field := range []string{"Total files", "Categories", "Size distribution", "Pattern families"} {
		assert.Contains(t, text.Body, field)
		assert.Contains(t, md.Body, field)
	}
}

func hasInsight(insights []string, substr string) bool {
	for _, s := range insights {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
