package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pipeline.yaml")

	configContent := `
rules:
  - id: first-swap
    type: stat_threshold
    enabled: true
    priority: 10
    actions: [badge]
    parameters:
      stat: swaps
      threshold: 1

actions:
  - id: badge
    type: award_badge
    enabled: true
    retry:
      max_attempts: 3
      delay: 250ms
    parameters:
      badge: first_swap
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(config.Rules) != 1 || config.Rules[0].ID != "first-swap" || config.Rules[0].Priority != 10 {
		t.Fatalf("rules = %+v", config.Rules)
	}
	if threshold, ok := config.Rules[0].Parameters["threshold"].(int); !ok || threshold != 1 {
		t.Errorf("threshold = %v", config.Rules[0].Parameters["threshold"])
	}
	retry := config.Actions[0].Retry
	if retry == nil || retry.MaxAttempts != 3 || retry.Delay != 250*time.Millisecond {
		t.Errorf("retry = %+v", retry)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_EmptyPathUsesDefault(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if len(config.Rules) == 0 || len(config.Actions) == 0 {
		t.Error("embedded default is empty")
	}
}

func TestDefaultConfig_PlatformRewardsToggle(t *testing.T) {
	config, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if enabled(config, "whale-volume") {
		t.Error("platform rule enabled without MERCADO_PLATFORM_REWARDS")
	}

	t.Setenv("MERCADO_PLATFORM_REWARDS", "true")
	config, err = DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if !enabled(config, "whale-volume") {
		t.Error("platform rule disabled with MERCADO_PLATFORM_REWARDS=true")
	}
}

func enabled(cfg *Config, ruleID string) bool {
	for _, r := range cfg.Rules {
		if r.ID == ruleID {
			return r.Enabled
		}
	}
	return false
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MERCADO_TEST_SET", "from-env")

	got := expandEnvVars("a=${MERCADO_TEST_SET} b=${MERCADO_TEST_UNSET:fallback} c=${MERCADO_TEST_UNSET}")
	want := "a=from-env b=fallback c="
	if got != want {
		t.Errorf("expandEnvVars() = %q, expected %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid",
			config: Config{
				Rules:   []RuleConfig{{ID: "r", Type: "stat_threshold", Actions: []string{"a"}}},
				Actions: []ActionConfig{{ID: "a", Type: "award_badge"}},
			},
		},
		{"empty rule id", Config{Rules: []RuleConfig{{Type: "t"}}}, "empty ID"},
		{"empty rule type", Config{Rules: []RuleConfig{{ID: "r"}}}, "empty type"},
		{"duplicate rule", Config{Rules: []RuleConfig{{ID: "r", Type: "t"}, {ID: "r", Type: "t"}}}, "duplicate rule"},
		{"duplicate action", Config{Actions: []ActionConfig{{ID: "a", Type: "t"}, {ID: "a", Type: "t"}}}, "duplicate action"},
		{"unknown action", Config{Rules: []RuleConfig{{ID: "r", Type: "t", Actions: []string{"ghost"}}}}, "unknown action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected %q", err, tt.wantErr)
			}
		})
	}
}
