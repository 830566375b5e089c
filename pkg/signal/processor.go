package signal

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Processor converts store activities into domain signals.
type Processor struct {
	mapperRegistry *MapperRegistry
}

// NewProcessor creates a new signal processor.
func NewProcessor() *Processor {
	return &Processor{
		mapperRegistry: NewMapperRegistry(),
	}
}

// GetMapperRegistry returns the mapper registry for this processor.
// This allows registering custom signal mappers.
func (p *Processor) GetMapperRegistry() *MapperRegistry {
	return p.mapperRegistry
}

// Process converts an activity into a signal bound to playerCtx.
func (p *Processor) Process(activity Activity, playerCtx *PlayerContext) (Signal, error) {
	if activity.Kind == "" {
		return nil, fmt.Errorf("activity kind is empty")
	}
	if activity.UserID == "" {
		return nil, fmt.Errorf("user ID is empty in %s activity", activity.Kind)
	}
	if playerCtx == nil {
		return nil, fmt.Errorf("player context is nil for user %s", activity.UserID)
	}

	if mapper := p.mapperRegistry.Get(activity.Kind); mapper != nil {
		sig := mapper.MapToSignal(activity, playerCtx)
		logrus.Debugf("processed %s activity for user %s into %T", activity.Kind, activity.UserID, sig)
		return sig, nil
	}

	metadata := make(map[string]interface{}, len(activity.Metadata)+1)
	for k, v := range activity.Metadata {
		metadata[k] = v
	}
	metadata["value"] = activity.Value

	logrus.Debugf("processed %s activity for user %s into BaseSignal", activity.Kind, activity.UserID)
	return NewBaseSignal(activity.Kind, activity.UserID, activity.Timestamp, metadata, playerCtx), nil
}
