package signal

import (
	"sync"
	"time"
)

// Activity is what the game store reports after a successful action.
type Activity struct {
	Kind      string
	UserID    string
	Timestamp time.Time
	Value     float64
	Metadata  map[string]interface{}
}

// SignalMapper maps an activity kind to a typed signal.
type SignalMapper interface {
	// Kind returns the activity kind this mapper handles (e.g., "level_up").
	Kind() string

	// MapToSignal converts an activity into a domain signal.
	MapToSignal(activity Activity, context *PlayerContext) Signal
}

// MapperRegistry manages registered signal mappers.
type MapperRegistry struct {
	mappers map[string]SignalMapper
	mu      sync.RWMutex
}

// NewMapperRegistry creates a new empty mapper registry.
func NewMapperRegistry() *MapperRegistry {
	return &MapperRegistry{
		mappers: make(map[string]SignalMapper),
	}
}

// Register adds a mapper to the registry, replacing any mapper for the same kind.
func (r *MapperRegistry) Register(mapper SignalMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[mapper.Kind()] = mapper
}

// Get returns the mapper for kind, or nil.
func (r *MapperRegistry) Get(kind string) SignalMapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mappers[kind]
}

// Count returns the number of registered mappers.
func (r *MapperRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mappers)
}
