package rule

// RuleConfig is the base configuration for all rules.
// This is typically loaded from YAML configuration files.
type RuleConfig struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"` // e.g., "stat_threshold"
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Priority int    `yaml:"priority" json:"priority"`
	// Repeatable rules fire on every match. Others fire once per player.
	Repeatable bool                   `yaml:"repeatable" json:"repeatable"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// GetInt retrieves an integer value from parameters with a default.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	if f, ok := toFloat(c.Parameters[key]); ok {
		return int(f)
	}
	return defaultValue
}

// GetFloat retrieves a float value from parameters with a default.
// YAML integers are accepted.
func (c *RuleConfig) GetFloat(key string, defaultValue float64) float64 {
	if f, ok := toFloat(c.Parameters[key]); ok {
		return f
	}
	return defaultValue
}

// GetString retrieves a string value from parameters with a default.
func (c *RuleConfig) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key].(string); ok {
		return val
	}
	return defaultValue
}

// GetBool retrieves a boolean value from parameters with a default.
func (c *RuleConfig) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key].(bool); ok {
		return val
	}
	return defaultValue
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
