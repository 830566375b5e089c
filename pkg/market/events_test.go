// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package market

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
)

func TestApply_KeepsProduct(t *testing.T) {
	p := pool.Pool{ID: "mango-peso", TokenA: "mango", TokenB: "peso", ReserveA: 1000, ReserveB: 500}

	next, err := Apply(p, Event{PriceShockBps: 1200})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if math.Abs(next.K()-p.K()) > 1e-6 {
		t.Errorf("K = %v, expected %v", next.K(), p.K())
	}
	if math.Abs(next.SpotPrice()-0.56) > 1e-9 {
		t.Errorf("SpotPrice = %v, expected 0.56", next.SpotPrice())
	}

	if _, err := Apply(pool.Pool{}, Event{}); !errors.Is(err, gameerr.ErrInsufficientLiquidity) {
		t.Errorf("Apply(empty) error = %v", err)
	}
	if _, err := Apply(p, Event{PriceShockBps: -10000}); !errors.Is(err, gameerr.ErrInvalidAmount) {
		t.Errorf("Apply(-100%%) error = %v", err)
	}
}

func TestGenerator_Maybe(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	live := pool.Pool{ID: "mango-peso", TokenA: "mango", TokenB: "peso", ReserveA: 10, ReserveB: 10}

	always := NewGenerator(1, 1, time.Minute)
	ev, ok := always.Maybe([]pool.Pool{live}, now)
	if !ok {
		t.Fatal("expected an event with probability 1")
	}
	if ev.PoolID != live.ID || !ev.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Errorf("event = %+v", ev)
	}

	never := NewGenerator(1, 0, time.Minute)
	if _, ok := never.Maybe([]pool.Pool{live}, now); ok {
		t.Error("unexpected event with probability 0")
	}
	if _, ok := always.Maybe([]pool.Pool{{ID: "empty"}}, now); ok {
		t.Error("unexpected event without live pools")
	}
}

func TestExpireDismissVisible(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "old", ExpiresAt: now.Add(-time.Second)},
		{ID: "live", ExpiresAt: now.Add(time.Hour)},
		{ID: "seen", ExpiresAt: now.Add(time.Hour)},
	}

	events = Expire(events, now)
	if len(events) != 2 {
		t.Fatalf("Expire() kept %d events, expected 2", len(events))
	}

	events, err := Dismiss(events, "seen")
	if err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}
	visible := Visible(events, now)
	if len(visible) != 1 || visible[0].ID != "live" {
		t.Errorf("Visible() = %+v", visible)
	}

	if _, err := Dismiss(events, "nope"); !errors.Is(err, gameerr.ErrNotFound) {
		t.Errorf("Dismiss(missing) error = %v", err)
	}
}
