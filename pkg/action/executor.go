package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Executor executes actions in response to rule triggers.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new action executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Execute runs one action in response to a trigger.
func (e *Executor) Execute(ctx context.Context, actionID string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	action, err := e.registry.Lookup(actionID)
	if err != nil {
		return NewActionError(actionID, 0, err), err
	}

	attempts, err := e.run(ctx, action, trigger, playerCtx)
	if err != nil {
		logrus.Errorf("action %s failed: %v", actionID, err)
		return NewActionError(actionID, attempts, err), err
	}
	return NewActionResult(actionID, attempts), nil
}

// ExecuteMultiple executes actions in order. When rollbackOnError is set,
// a failure rolls back the actions that already ran, newest first.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext, rollbackOnError bool) ([]*ActionResult, error) {
	var results []*ActionResult
	var executed []Action

	fail := func(result *ActionResult) ([]*ActionResult, error) {
		results = append(results, result)
		if rollbackOnError && len(executed) > 0 {
			e.rollbackActions(ctx, executed, trigger, playerCtx)
		}
		return results, result.Error
	}

	for _, actionID := range actionIDs {
		action, err := e.registry.Lookup(actionID)
		if err != nil {
			logrus.Errorf("%v", err)
			return fail(NewActionError(actionID, 0, err))
		}

		logrus.Debugf("executing action %s for trigger %s (user: %s)", actionID, trigger.RuleID, trigger.UserID)

		attempts, err := e.run(ctx, action, trigger, playerCtx)
		if err != nil {
			logrus.Errorf("action %s failed: %v", actionID, err)
			return fail(NewActionError(actionID, attempts, err))
		}

		executed = append(executed, action)
		results = append(results, NewActionResult(actionID, attempts))
	}

	return results, nil
}

// run executes action once, or under its retry policy when one is configured.
func (e *Executor) run(ctx context.Context, action Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (int, error) {
	attempts := 0
	op := func() error {
		attempts++
		return action.Execute(ctx, trigger, playerCtx)
	}

	rc := action.Config().Retry
	if rc == nil || rc.MaxAttempts <= 1 {
		return 1, op()
	}

	var policy backoff.BackOff
	if rc.Backoff == "exponential" {
		exp := backoff.NewExponentialBackOff()
		if rc.Delay > 0 {
			exp.InitialInterval = rc.Delay
		}
		policy = exp
	} else {
		policy = backoff.NewConstantBackOff(rc.Delay)
	}
	policy = backoff.WithContext(backoff.WithMaxRetries(policy, uint64(rc.MaxAttempts-1)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return attempts, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
	return attempts, nil
}

// rollbackActions rolls back actions in reverse order.
func (e *Executor) rollbackActions(ctx context.Context, actions []Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	logrus.Warnf("rolling back %d actions for trigger %s", len(actions), trigger.RuleID)

	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		err := action.Rollback(ctx, trigger, playerCtx)
		switch {
		case errors.Is(err, ErrRollbackNotSupported):
			logrus.Warnf("action %s does not support rollback", action.ID())
		case err != nil:
			logrus.Errorf("failed to rollback action %s: %v", action.ID(), err)
		default:
			logrus.Debugf("action %s rolled back", action.ID())
		}
	}
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
