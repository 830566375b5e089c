package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// Manager orchestrates the unlock pipeline:
// Activity → Signal → Rules → Actions
type Manager struct {
	processor *signal.Processor
	engine    *rule.Engine
	executor  *action.Executor
	pipeline  *Pipeline
	logger    *slog.Logger

	activities    atomic.Int64
	signals       atomic.Int64
	triggers      atomic.Int64
	actionsOK     atomic.Int64
	actionsFailed atomic.Int64
}

// Result is the outcome of one activity.
type Result struct {
	SignalType string
	Fired      []string // rules whose actions all succeeded
	Failed     []string // rules rolled back after an action failure
	Effects    *signal.Effects
}

// NewManager creates a new pipeline manager with all required components.
func NewManager(processor *signal.Processor, engine *rule.Engine, executor *action.Executor, p *Pipeline, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = NewPipeline("empty")
	}

	return &Manager{
		processor: processor,
		engine:    engine,
		executor:  executor,
		pipeline:  p,
		logger:    logger,
	}
}

// Process runs activity through the pipeline against playerCtx.
// Fired rules are recorded in playerCtx.FiredRules; requested effects are in Result.Effects.
func (m *Manager) Process(ctx context.Context, activity signal.Activity, playerCtx *signal.PlayerContext) (*Result, error) {
	m.activities.Add(1)

	sig, err := m.processor.Process(activity, playerCtx)
	if err != nil {
		m.logger.Error("failed to process activity to signal",
			slog.String("kind", activity.Kind),
			slog.String("user_id", activity.UserID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("signal processing failed: %w", err)
	}
	m.signals.Add(1)

	return m.evaluateAndExecute(ctx, sig)
}

// evaluateAndExecute evaluates rules for a signal and executes triggered actions.
func (m *Manager) evaluateAndExecute(ctx context.Context, sig signal.Signal) (*Result, error) {
	playerCtx := sig.Context()
	result := &Result{SignalType: sig.Type(), Effects: playerCtx.Effects}

	triggers, err := m.engine.Evaluate(ctx, sig)
	if err != nil {
		m.logger.Error("rule evaluation failed",
			slog.String("signal_type", sig.Type()),
			slog.String("user_id", sig.UserID()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("rule evaluation failed: %w", err)
	}

	if len(triggers) == 0 {
		m.logger.Debug("no rules triggered for signal",
			slog.String("signal_type", sig.Type()),
			slog.String("user_id", sig.UserID()))
		return result, nil
	}
	m.triggers.Add(int64(len(triggers)))

	for _, trigger := range triggers {
		actionIDs := m.pipeline.GetActions(trigger.RuleID)
		if len(actionIDs) == 0 {
			m.logger.Info("trigger has no actions configured",
				slog.String("rule_id", trigger.RuleID))
			playerCtx.FiredRules[trigger.RuleID] = true
			result.Fired = append(result.Fired, trigger.RuleID)
			continue
		}

		results, err := m.executor.ExecuteMultiple(ctx, actionIDs, trigger, playerCtx, true)
		for _, r := range results {
			if r.Success {
				m.actionsOK.Add(1)
			} else {
				m.actionsFailed.Add(1)
			}
		}
		if err != nil {
			// the rule stays unfired and gets another chance on the next signal
			m.logger.Error("action execution failed, trigger rolled back",
				slog.String("rule_id", trigger.RuleID),
				slog.String("user_id", trigger.UserID),
				slog.String("error", err.Error()))
			result.Failed = append(result.Failed, trigger.RuleID)
			continue
		}

		playerCtx.FiredRules[trigger.RuleID] = true
		result.Fired = append(result.Fired, trigger.RuleID)
		m.logger.Info("unlock rule fired",
			slog.String("rule_id", trigger.RuleID),
			slog.String("user_id", trigger.UserID),
			slog.Int("actions", len(results)))
	}

	return result, nil
}

// Stats returns pipeline statistics (for observability).
type Stats struct {
	ProcessorStats ProcessorStats `json:"processor"`
	EngineStats    EngineStats    `json:"engine"`
	ExecutorStats  ExecutorStats  `json:"executor"`
}

// ProcessorStats contains signal processor statistics.
type ProcessorStats struct {
	TotalActivitiesProcessed int64 `json:"total_activities_processed"`
	SignalsGenerated         int64 `json:"signals_generated"`
}

// EngineStats contains rule engine statistics.
type EngineStats struct {
	TriggersGenerated int64 `json:"triggers_generated"`
}

// ExecutorStats contains action executor statistics.
type ExecutorStats struct {
	SuccessfulActions int64 `json:"successful_actions"`
	FailedActions     int64 `json:"failed_actions"`
}

// GetStats returns current pipeline statistics.
func (m *Manager) GetStats() Stats {
	return Stats{
		ProcessorStats: ProcessorStats{
			TotalActivitiesProcessed: m.activities.Load(),
			SignalsGenerated:         m.signals.Load(),
		},
		EngineStats: EngineStats{
			TriggersGenerated: m.triggers.Load(),
		},
		ExecutorStats: ExecutorStats{
			SuccessfulActions: m.actionsOK.Load(),
			FailedActions:     m.actionsFailed.Load(),
		},
	}
}
