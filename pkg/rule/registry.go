package rule

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available rules.
// It provides thread-safe registration and lookup of rules.
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// Returns an error if a rule with the same ID already exists.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID()]; exists {
		return fmt.Errorf("rule %s already registered", rule.ID())
	}

	r.rules[rule.ID()] = rule
	return nil
}

// Get returns a rule by ID, or nil.
func (r *Registry) Get(ruleID string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rules[ruleID]
}

// GetBySignalType returns the enabled rules handling signalType, ordered by ID.
func (r *Registry) GetBySignalType(signalType string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []Rule
	for _, rule := range r.rules {
		if !rule.Config().Enabled {
			continue
		}
		if handles(rule, signalType) {
			matching = append(matching, rule)
		}
	}

	sort.Slice(matching, func(i, j int) bool { return matching[i].ID() < matching[j].ID() })
	return matching
}

func handles(rule Rule, signalType string) bool {
	types := rule.SignalTypes()
	if len(types) == 0 {
		return true
	}
	for _, st := range types {
		if st == signalType {
			return true
		}
	}
	return false
}

// GetAll returns all registered rules.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
