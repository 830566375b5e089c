// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

import (
	"errors"
	"testing"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

func TestTable_LevelFor(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		xp       int64
		expected int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{12000, 10},
		{99999, 10},
	}

	for _, tt := range tests {
		if got := table.LevelFor(tt.xp); got != tt.expected {
			t.Errorf("LevelFor(%d) = %d, expected %d", tt.xp, got, tt.expected)
		}
	}
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name       string
		thresholds []int64
		valid      bool
	}{
		{name: "default", thresholds: DefaultThresholds, valid: true},
		{name: "empty", thresholds: nil},
		{name: "not starting at zero", thresholds: []int64{10, 20}},
		{name: "not increasing", thresholds: []int64{0, 100, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.thresholds)
			if tt.valid && err != nil {
				t.Errorf("NewTable() error = %v", err)
			}
			if !tt.valid && !errors.Is(err, gameerr.ErrInvalidAmount) {
				t.Errorf("NewTable() error = %v, expected ErrInvalidAmount", err)
			}
		})
	}
}

func TestAddXp_EmitsSingleLevelUp(t *testing.T) {
	e := NewEngine(DefaultTable(), nil)
	p := NewPlayer("p1", nil)

	p, ev, err := e.AddXp(p, 50, "swap")
	if err != nil {
		t.Fatalf("AddXp() error = %v", err)
	}
	if ev != nil {
		t.Errorf("unexpected level up at 50 XP: %+v", ev)
	}

	// 50 -> 300 crosses two thresholds.
	p, ev, err = e.AddXp(p, 250, "challenge")
	if err != nil {
		t.Fatalf("AddXp() error = %v", err)
	}
	if ev == nil {
		t.Fatal("expected a level up event")
	}
	if ev.From != 1 || ev.To != 3 || ev.XP != 300 || ev.Source != "challenge" {
		t.Errorf("event = %+v, expected 1->3 at 300 XP", ev)
	}
	if p.Level != 3 {
		t.Errorf("Level = %d, expected 3", p.Level)
	}
}

func TestAddXp_RejectsNegative(t *testing.T) {
	e := NewEngine(DefaultTable(), nil)
	p := NewPlayer("p1", nil)
	p.XP = 10

	next, ev, err := e.AddXp(p, -1, "bug")
	if !errors.Is(err, gameerr.ErrInvalidAmount) {
		t.Errorf("AddXp(-1) error = %v, expected ErrInvalidAmount", err)
	}
	if ev != nil || next.XP != 10 {
		t.Errorf("player changed on rejected XP: %+v", next)
	}
}

func TestAwardBadge_Idempotent(t *testing.T) {
	e := NewEngine(DefaultTable(), nil)
	p := NewPlayer("p1", nil)

	p, awarded, err := e.AwardBadge(p, BadgeFirstSwap)
	if err != nil || !awarded {
		t.Fatalf("AwardBadge() = %v, %v", awarded, err)
	}
	p, awarded, err = e.AwardBadge(p, BadgeFirstSwap)
	if err != nil || awarded {
		t.Errorf("second AwardBadge() = %v, %v; expected silent no-op", awarded, err)
	}
	if len(p.Badges) != 1 {
		t.Errorf("Badges = %v, expected one entry", p.Badges)
	}

	if _, _, err := e.AwardBadge(p, "nope"); !errors.Is(err, gameerr.ErrInvalidAmount) {
		t.Errorf("AwardBadge(unknown) error = %v", err)
	}

	p = e.RevokeBadge(p, BadgeFirstSwap)
	if p.HasBadge(BadgeFirstSwap) {
		t.Error("RevokeBadge() left the badge in place")
	}
}
