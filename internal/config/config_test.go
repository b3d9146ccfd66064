package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestBuild_Defaults(t *testing.T) {
	cfg, err := build(viper.New())
	if err != nil {
		t.Fatalf("Expected defaults to build, got error: %v", err)
	}

	if cfg.Simulation.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Simulation.Seed)
	}
	if cfg.Simulation.Weeks != 104 {
		t.Errorf("Expected 104 weeks, got %d", cfg.Simulation.Weeks)
	}
	if cfg.Simulation.SKUCount != 600 {
		t.Errorf("Expected 600 SKUs, got %d", cfg.Simulation.SKUCount)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.Simulation.StartDate.Equal(want) {
		t.Errorf("Expected start date %s, got %s", want, cfg.Simulation.StartDate)
	}
	if cfg.Output.ExportWorkers != 4 {
		t.Errorf("Expected 4 export workers, got %d", cfg.Output.ExportWorkers)
	}
	if !cfg.Output.WriteMetrics {
		t.Error("Expected metrics textfile to be enabled by default")
	}
}

func TestBuild_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SIM_SEED", "7")
	t.Setenv("SIM_WEEKS", "80")
	t.Setenv("SIM_START_DATE", "2025-02-03")
	t.Setenv("OUTPUT_XLSX", "true")

	cfg, err := build(viper.New())
	if err != nil {
		t.Fatalf("Expected build to succeed, got error: %v", err)
	}

	if cfg.Simulation.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.Simulation.Seed)
	}
	if cfg.Simulation.Weeks != 80 {
		t.Errorf("Expected 80 weeks, got %d", cfg.Simulation.Weeks)
	}
	if cfg.Simulation.StartDate.Year() != 2025 || cfg.Simulation.StartDate.Month() != time.February {
		t.Errorf("Expected start date in Feb 2025, got %s", cfg.Simulation.StartDate)
	}
	if !cfg.Output.WriteXLSX {
		t.Error("Expected OUTPUT_XLSX=true to enable the workbook")
	}
}

func TestBuild_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad start date", "SIM_START_DATE", "01/01/2024"},
		{"horizon too short", "SIM_WEEKS", "40"},
		{"too few skus", "SIM_SKUS", "2"},
		{"zero line cap", "SIM_MAX_LINES_PER_PARTNER_WEEK", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := build(viper.New()); err == nil {
				t.Fatalf("Expected error for %s=%s, got none", tc.key, tc.value)
			}
		})
	}
}
