package builtin

import (
	"testing"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
)

func TestRegisterMappers(t *testing.T) {
	p := signal.NewProcessor()
	RegisterMappers(p.GetMapperRegistry())

	if p.GetMapperRegistry().Count() != 3 {
		t.Fatalf("Count() = %d, expected 3", p.GetMapperRegistry().Count())
	}

	ctx := signal.NewPlayerContext(progression.Player{ID: "p1"}, 0, 0, nil)
	now := time.Now()

	sig, err := p.Process(signal.Activity{Kind: signal.TypeLevelUp, UserID: "p1", Timestamp: now, Value: 4, Metadata: map[string]interface{}{"from": 2}}, ctx)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	lvl, ok := sig.(*LevelUpSignal)
	if !ok {
		t.Fatalf("expected *LevelUpSignal, got %T", sig)
	}
	if lvl.From != 2 || lvl.To != 4 {
		t.Errorf("LevelUpSignal = %d -> %d", lvl.From, lvl.To)
	}

	sig, _ = p.Process(signal.Activity{Kind: signal.TypeStreakCheckIn, UserID: "p1", Value: 7}, ctx)
	if s, ok := sig.(*StreakSignal); !ok || s.CurrentStreak != 7 {
		t.Errorf("streak signal = %#v", sig)
	}

	sig, _ = p.Process(signal.Activity{Kind: signal.TypeLeagueRanked, UserID: "p1", Value: 2, Metadata: map[string]interface{}{"volume": 150.0}}, ctx)
	if l, ok := sig.(*LeagueSignal); !ok || l.Rank != 2 || l.Volume != 150 {
		t.Errorf("league signal = %#v", sig)
	}
	if sig.Context() != ctx {
		t.Error("context not carried through")
	}
}
