package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Orchestrator.MaxAdaptationTurns != 1 {
		t.Errorf("MaxAdaptationTurns = %d, want 1", cfg.Orchestrator.MaxAdaptationTurns)
	}
	if cfg.Orchestrator.MaxTotalTools != 10 {
		t.Errorf("MaxTotalTools = %d, want 10", cfg.Orchestrator.MaxTotalTools)
	}
	if cfg.Runtime.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want 30s", cfg.Runtime.CallTimeout)
	}
	if cfg.Runtime.MaxParallel != 8 {
		t.Errorf("MaxParallel = %d, want 8", cfg.Runtime.MaxParallel)
	}
	if cfg.Session.ClassifyTimeout != 2*time.Second {
		t.Errorf("ClassifyTimeout = %v, want 2s", cfg.Session.ClassifyTimeout)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `anthropic:
  model: claude-sonnet-4-20250514
orchestrator:
  max_adaptation_turns: 2
  max_total_tools: 20
runtime:
  call_timeout: 10s
  max_parallel: 4
storage:
  holiday_calendar: /etc/concierge/holidays.yaml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q", cfg.Anthropic.Model)
	}
	if cfg.Orchestrator.MaxAdaptationTurns != 2 {
		t.Errorf("MaxAdaptationTurns = %d, want 2", cfg.Orchestrator.MaxAdaptationTurns)
	}
	if cfg.Orchestrator.MaxTotalTools != 20 {
		t.Errorf("MaxTotalTools = %d, want 20", cfg.Orchestrator.MaxTotalTools)
	}
	if cfg.Runtime.CallTimeout != 10*time.Second {
		t.Errorf("CallTimeout = %v, want 10s", cfg.Runtime.CallTimeout)
	}
	if cfg.Runtime.MaxParallel != 4 {
		t.Errorf("MaxParallel = %d, want 4", cfg.Runtime.MaxParallel)
	}
	if cfg.Storage.HolidayCalendar != "/etc/concierge/holidays.yaml" {
		t.Errorf("HolidayCalendar = %q", cfg.Storage.HolidayCalendar)
	}
}

func TestLoadFromPathDefaultsFillGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("anthropic:\n  model: test\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Orchestrator.MaxTotalTools != 10 {
		t.Errorf("MaxTotalTools = %d, want default 10", cfg.Orchestrator.MaxTotalTools)
	}
	if cfg.Runtime.MaxParallel != 8 {
		t.Errorf("MaxParallel = %d, want default 8", cfg.Runtime.MaxParallel)
	}
}

func TestAPIKeyEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	t.Setenv("CONCIERGE_TEST_KEY", "sk-ant-REDACTED")
	content := "anthropic:\n  api_key: ${CONCIERGE_TEST_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-REDACTED" {
		t.Errorf("APIKey = %q, want expanded value", cfg.Anthropic.APIKey)
	}
}
