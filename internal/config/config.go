// Package config loads maintenance settings from an optional
// memories/maintenance.yaml. Absent file means defaults; a broken file
// is an error rather than a silent fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// Settings are the tunable maintenance parameters. The 50 KiB size
// ceiling is a contract, not a setting, and lives in model.
type Settings struct {
	Consolidation ConsolidationSettings `yaml:"consolidation" mapstructure:"consolidation"`
	Cleanup       CleanupSettings       `yaml:"cleanup" mapstructure:"cleanup"`
	Analytics     AnalyticsSettings     `yaml:"analytics" mapstructure:"analytics"`
}

type ConsolidationSettings struct {
	// Threshold is the similarity ratio at or above which two pattern
	// records are flagged as candidate duplicates.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

type CleanupSettings struct {
	StaleAgeDays int `yaml:"stale_age_days" mapstructure:"stale_age_days"`
}

type AnalyticsSettings struct {
	PeriodDays int `yaml:"period_days" mapstructure:"period_days"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Consolidation: ConsolidationSettings{Threshold: 0.70},
		Cleanup:       CleanupSettings{StaleAgeDays: 30},
		Analytics:     AnalyticsSettings{PeriodDays: 30},
	}
}

// Load reads maintenance.yaml from the memories directory if present
// and merges it over the defaults.
func Load(workspaceRoot string) (*Settings, error) {
	settings := Defaults()

	path := filepath.Join(workspaceRoot, model.MemoryDirName, "maintenance.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

func (s *Settings) validate() error {
	if s.Consolidation.Threshold < 0 || s.Consolidation.Threshold > 1 {
		return fmt.Errorf("consolidation.threshold must be between 0 and 1, got %v", s.Consolidation.Threshold)
	}
	if s.Cleanup.StaleAgeDays < 1 {
		return fmt.Errorf("cleanup.stale_age_days must be positive, got %d", s.Cleanup.StaleAgeDays)
	}
	if s.Analytics.PeriodDays < 1 {
		return fmt.Errorf("analytics.period_days must be positive, got %d", s.Analytics.PeriodDays)
	}
	return nil
}
