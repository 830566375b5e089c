package action

import (
	"context"
	"errors"

	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// Executor and registry errors.
var (
	ErrRollbackNotSupported = errors.New("rollback not supported for this action")
	ErrActionDisabled       = errors.New("action is disabled")
	ErrActionNotFound       = errors.New("action not found in registry")
	ErrInvalidConfig        = errors.New("invalid action configuration")
	ErrMaxRetriesExceeded   = errors.New("maximum retry attempts exceeded")
	// ErrMissingPlayerContext is returned by actions that record in-game effects.
	ErrMissingPlayerContext = errors.New("missing player context")
)

// Action performs an unlock in response to a trigger.
// Actions are registered in a Registry and executed by the Executor.
type Action interface {
	// ID returns unique action identifier.
	ID() string

	// Name returns human-readable action name.
	Name() string

	// Execute performs the action. In-game effects are recorded on
	// playerCtx.Effects; external effects are applied directly.
	Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Rollback undoes the action (optional, can return ErrRollbackNotSupported).
	// This is called if a later action for the same trigger fails.
	Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Config returns the action's configuration.
	Config() ActionConfig
}

// ActionResult represents the outcome of an action execution.
type ActionResult struct {
	ActionID string
	Success  bool
	Attempts int
	Error    error
}

// NewActionResult creates a successful action result.
func NewActionResult(actionID string, attempts int) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Success:  true,
		Attempts: attempts,
	}
}

// NewActionError creates a failed action result with an error.
func NewActionError(actionID string, attempts int, err error) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Attempts: attempts,
		Error:    err,
	}
}
