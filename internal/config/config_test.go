package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, "memories")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maintenance.yaml"), []byte(content), 0o644))
}

func TestDefaultsWithoutFile(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 0.70, settings.Consolidation.Threshold)
	assert.Equal(t, 30, settings.Cleanup.StaleAgeDays)
	assert.Equal(t, 30, settings.Analytics.PeriodDays)
}

func TestFileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "consolidation:\n  threshold: 0.85\ncleanup:\n  stale_age_days: 14\n")

	settings, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, 0.85, settings.Consolidation.Threshold)
	assert.Equal(t, 14, settings.Cleanup.StaleAgeDays)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, settings.Analytics.PeriodDays)
}

func TestInvalidValuesRejected(t *testing.T) {
	cases := []string{
		"consolidation:\n  threshold: 1.5\n",
		"cleanup:\n  stale_age_days: 0\n",
		"analytics:\n  period_days: -3\n",
	}
	for _, content := range cases {
		root := t.TempDir()
		writeConfig(t, root, content)
		_, err := Load(root)
		assert.Error(t, err, content)
	}
}

func TestBrokenYAMLIsAnError(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "consolidation: [unclosed\n")

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maintenance.yaml")
}
