package pipeline

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"gopkg.in/yaml.v3"
)

//go:embed default_pipeline.yaml
var defaultConfig []byte

// Config represents the complete unlock pipeline configuration.
type Config struct {
	Rules   []RuleConfig   `yaml:"rules"`
	Actions []ActionConfig `yaml:"actions"`
}

// RuleConfig represents a rule configuration entry.
type RuleConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Priority   int                    `yaml:"priority,omitempty"`
	Repeatable bool                   `yaml:"repeatable,omitempty"`
	Actions    []string               `yaml:"actions,omitempty"` // Action IDs to execute when rule triggers
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// ActionConfig represents an action configuration entry.
type ActionConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Retry      *action.RetryConfig    `yaml:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// LoadConfig loads pipeline configuration from a YAML file.
// An empty path loads the embedded default.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// DefaultConfig returns the embedded unlock pipeline.
func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultConfig)
}

// ParseConfig expands, parses and validates YAML pipeline configuration.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	ruleIDs := make(map[string]bool)
	for _, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule with empty ID found")
		}
		if ruleIDs[rule.ID] {
			return fmt.Errorf("duplicate rule ID: %s", rule.ID)
		}
		ruleIDs[rule.ID] = true

		if rule.Type == "" {
			return fmt.Errorf("rule %s has empty type", rule.ID)
		}
	}

	actionIDs := make(map[string]bool)
	for _, action := range c.Actions {
		if action.ID == "" {
			return fmt.Errorf("action with empty ID found")
		}
		if actionIDs[action.ID] {
			return fmt.Errorf("duplicate action ID: %s", action.ID)
		}
		actionIDs[action.ID] = true

		if action.Type == "" {
			return fmt.Errorf("action %s has empty type", action.ID)
		}
		if action.Retry != nil && action.Retry.MaxAttempts < 0 {
			return fmt.Errorf("action %s has negative retry attempts", action.ID)
		}
	}

	for _, rule := range c.Rules {
		for _, actionID := range rule.Actions {
			if !actionIDs[actionID] {
				return fmt.Errorf("rule %s references unknown action: %s", rule.ID, actionID)
			}
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		varName, defaultValue, _ := strings.Cut(key, ":")

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
