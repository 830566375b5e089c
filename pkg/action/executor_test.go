package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// testAction records calls and fails on demand
type testAction struct {
	id             string
	config         ActionConfig
	failTimes      int
	executeCalls   int
	rollbackCalled bool
}

func (a *testAction) ID() string           { return a.id }
func (a *testAction) Name() string         { return "Test " + a.id }
func (a *testAction) Config() ActionConfig { return a.config }

func (a *testAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	a.executeCalls++
	if a.executeCalls <= a.failTimes {
		return errors.New("boom")
	}
	playerCtx.Effects.AwardBadge(a.id)
	return nil
}

func (a *testAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	a.rollbackCalled = true
	playerCtx.Effects.RevokeBadge(a.id)
	return nil
}

func newAction(id string, failTimes int) *testAction {
	return &testAction{id: id, config: ActionConfig{ID: id, Enabled: true}, failTimes: failTimes}
}

func fixture() (*rule.Trigger, *signal.PlayerContext) {
	pc := signal.NewPlayerContext(progression.Player{ID: "p1"}, 0, 0, nil)
	sig := signal.NewBaseSignal(signal.TypeSwapExecuted, "p1", time.Now(), nil, pc)
	return rule.NewTrigger("r1", sig, "test", 0), pc
}

func TestExecutor_Execute(t *testing.T) {
	registry := NewRegistry()
	registry.Register(newAction("ok", 0))
	registry.Register(&testAction{id: "off", config: ActionConfig{ID: "off"}})
	executor := NewExecutor(registry)
	trigger, pc := fixture()

	result, err := executor.Execute(context.Background(), "ok", trigger, pc)
	if err != nil || !result.Success || result.Attempts != 1 {
		t.Errorf("Execute(ok) = %+v, %v", result, err)
	}

	if _, err := executor.Execute(context.Background(), "missing", trigger, pc); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("Execute(missing) error = %v", err)
	}
	if _, err := executor.Execute(context.Background(), "off", trigger, pc); !errors.Is(err, ErrActionDisabled) {
		t.Errorf("Execute(off) error = %v", err)
	}
}

func TestExecutor_ExecuteMultiple_Rollback(t *testing.T) {
	registry := NewRegistry()
	first, second, bad := newAction("first", 0), newAction("second", 0), newAction("bad", 1)
	registry.Register(first)
	registry.Register(second)
	registry.Register(bad)
	executor := NewExecutor(registry)
	trigger, pc := fixture()

	results, err := executor.ExecuteMultiple(context.Background(), []string{"first", "second", "bad"}, trigger, pc, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 3 || results[2].Success {
		t.Errorf("results = %+v", results)
	}
	if !first.rollbackCalled || !second.rollbackCalled {
		t.Error("executed actions not rolled back")
	}
	if !pc.Effects.Empty() {
		t.Errorf("effects survived rollback: %+v", pc.Effects)
	}
}

func TestExecutor_ExecuteMultiple_NoRollback(t *testing.T) {
	registry := NewRegistry()
	first := newAction("first", 0)
	registry.Register(first)
	executor := NewExecutor(registry)
	trigger, pc := fixture()

	_, err := executor.ExecuteMultiple(context.Background(), []string{"first", "missing"}, trigger, pc, false)
	if !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("error = %v", err)
	}
	if first.rollbackCalled {
		t.Error("rollback ran with rollbackOnError=false")
	}
	if len(pc.Effects.Badges) != 1 {
		t.Errorf("effects = %+v", pc.Effects)
	}
}

func TestExecutor_Retry(t *testing.T) {
	tests := []struct {
		name         string
		failTimes    int
		maxAttempts  int
		wantErr      error
		wantAttempts int
	}{
		{"recovers", 2, 3, nil, 3},
		{"exhausted", 5, 3, ErrMaxRetriesExceeded, 3},
		{"no retry policy", 1, 0, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAction("flaky", tt.failTimes)
			if tt.maxAttempts > 0 {
				a.config.Retry = &RetryConfig{MaxAttempts: tt.maxAttempts, Delay: time.Millisecond}
			}
			registry := NewRegistry()
			registry.Register(a)
			trigger, pc := fixture()

			result, err := NewExecutor(registry).Execute(context.Background(), "flaky", trigger, pc)
			if tt.maxAttempts == 0 {
				if err == nil {
					t.Fatal("expected the single attempt to fail")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) && !(tt.wantErr == nil && err == nil) {
				t.Fatalf("error = %v, expected %v", err, tt.wantErr)
			}
			if result.Attempts != tt.wantAttempts {
				t.Errorf("Attempts = %d, expected %d", result.Attempts, tt.wantAttempts)
			}
		})
	}
}
