package rule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

// testRule matches or fails on demand
type testRule struct {
	id          string
	signalTypes []string
	config      RuleConfig
	shouldMatch bool
	shouldError bool
}

func (r *testRule) ID() string            { return r.id }
func (r *testRule) Name() string          { return "Test " + r.id }
func (r *testRule) SignalTypes() []string { return r.signalTypes }
func (r *testRule) Config() RuleConfig    { return r.config }

func (r *testRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *Trigger, error) {
	if r.shouldError {
		return false, nil, errors.New("test error")
	}
	if !r.shouldMatch {
		return false, nil, nil
	}
	return true, NewTrigger(r.id, sig, "test trigger", r.config.Priority).WithMetadata("test", true), nil
}

func newTestRule(id string, priority int, match bool) *testRule {
	return &testRule{
		id:          id,
		signalTypes: []string{signal.TypeSwapExecuted},
		config:      RuleConfig{ID: id, Enabled: true, Priority: priority},
		shouldMatch: match,
	}
}

func swapSignal(fired map[string]bool) signal.Signal {
	ctx := signal.NewPlayerContext(progression.Player{ID: "p1"}, 0, 0, fired)
	return signal.NewBaseSignal(signal.TypeSwapExecuted, "p1", time.Unix(100, 0), nil, ctx)
}

func TestEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []*testRule
		fired   map[string]bool
		wantIDs []string
	}{
		{
			name: "no rules",
		},
		{
			name:    "single match",
			rules:   []*testRule{newTestRule("a", 0, true)},
			wantIDs: []string{"a"},
		},
		{
			name:    "priority order",
			rules:   []*testRule{newTestRule("low", 1, true), newTestRule("high", 10, true), newTestRule("mid", 5, true)},
			wantIDs: []string{"high", "mid", "low"},
		},
		{
			name:    "mixed results",
			rules:   []*testRule{newTestRule("yes", 0, true), newTestRule("no", 0, false), {id: "err", config: RuleConfig{ID: "err", Enabled: true}, shouldError: true}},
			wantIDs: []string{"yes"},
		},
		{
			name:    "fired rule skipped",
			rules:   []*testRule{newTestRule("a", 0, true), newTestRule("b", 0, true)},
			fired:   map[string]bool{"a": true},
			wantIDs: []string{"b"},
		},
		{
			name: "repeatable rule not skipped",
			rules: []*testRule{{
				id:          "again",
				config:      RuleConfig{ID: "again", Enabled: true, Repeatable: true},
				shouldMatch: true,
			}},
			fired:   map[string]bool{"again": true},
			wantIDs: []string{"again"},
		},
		{
			name:  "other signal type",
			rules: []*testRule{{id: "lvl", signalTypes: []string{signal.TypeLevelUp}, config: RuleConfig{ID: "lvl", Enabled: true}, shouldMatch: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			for _, r := range tt.rules {
				if err := registry.Register(r); err != nil {
					t.Fatalf("Register() error = %v", err)
				}
			}

			triggers, err := NewEngine(registry).Evaluate(context.Background(), swapSignal(tt.fired))
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if len(triggers) != len(tt.wantIDs) {
				t.Fatalf("got %d triggers, expected %d", len(triggers), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if triggers[i].RuleID != id {
					t.Errorf("trigger[%d] = %s, expected %s", i, triggers[i].RuleID, id)
				}
				if triggers[i].UserID != "p1" || !triggers[i].Timestamp.Equal(time.Unix(100, 0)) {
					t.Errorf("trigger[%d] user/time = %s %v", i, triggers[i].UserID, triggers[i].Timestamp)
				}
			}
		})
	}
}

func TestEngine_Evaluate_NilSignal(t *testing.T) {
	triggers, err := NewEngine(NewRegistry()).Evaluate(context.Background(), nil)
	if err != nil || triggers != nil {
		t.Errorf("Evaluate(nil) = %v, %v", triggers, err)
	}
}
