// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package market spawns timed market events that shock pool prices.
package market

import (
	"fmt"
	"math"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/pool"
)

// Kind classifies an event.
type Kind string

const (
	KindHarvest  Kind = "harvest"
	KindDrought  Kind = "drought"
	KindFestival Kind = "festival"
	KindRumor    Kind = "rumor"
)

// Event is a market event. A positive PriceShockBps raises the price of
// TokenA in TokenB.
type Event struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PoolID        string    `json:"poolId"`
	PriceShockBps int       `json:"priceShockBps"`
	StartedAt     time.Time `json:"startedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Dismissed     bool      `json:"dismissed"`
}

// Active reports whether the event is still running at now.
func (e Event) Active(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

type template struct {
	kind     Kind
	title    string
	desc     string
	shockBps int
}

var templates = []template{
	{KindHarvest, "Cosecha abundante", "A big harvest floods the market with %s.", -800},
	{KindDrought, "Sequía", "A dry season makes %s scarce.", 1200},
	{KindFestival, "Fiesta del pueblo", "Festival demand lifts %s.", 500},
	{KindRumor, "Rumor en el mercado", "Whispers about %s spook traders.", -400},
}

// Generator spawns events with a seeded source.
type Generator struct {
	// Probability of spawning an event per tick when none is active.
	Probability float64
	Duration    time.Duration

	mu   sync.Mutex
	rand *mathrand.Rand
}

// NewGenerator creates a generator.
func NewGenerator(seed int64, probability float64, duration time.Duration) *Generator {
	return &Generator{
		Probability: probability,
		Duration:    duration,
		rand:        mathrand.New(mathrand.NewSource(seed)),
	}
}

// Maybe spawns at most one event against one of the non-empty pools.
func (g *Generator) Maybe(pools []pool.Pool, now time.Time) (Event, bool) {
	var live []pool.Pool
	for _, p := range pools {
		if !p.IsEmpty() {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return Event{}, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rand.Float64() >= g.Probability {
		return Event{}, false
	}
	p := live[g.rand.Intn(len(live))]
	t := templates[g.rand.Intn(len(templates))]
	return Event{
		ID:            uuid.NewString(),
		Kind:          t.kind,
		Title:         t.title,
		Description:   fmt.Sprintf(t.desc, p.TokenA),
		PoolID:        p.ID,
		PriceShockBps: t.shockBps,
		StartedAt:     now,
		ExpiresAt:     now.Add(g.Duration),
	}, true
}

// Apply moves the pool price by the event shock while keeping k constant.
func Apply(p pool.Pool, e Event) (pool.Pool, error) {
	if p.IsEmpty() {
		return p, fmt.Errorf("pool %s: %w", p.ID, gameerr.ErrInsufficientLiquidity)
	}
	factor := 1 + float64(e.PriceShockBps)/pool.BpsDenominator
	if factor <= 0 {
		return p, fmt.Errorf("price shock %d bps: %w", e.PriceShockBps, gameerr.ErrInvalidAmount)
	}
	k := p.K()
	price := p.SpotPrice() * factor

	next := p
	next.ReserveA = math.Sqrt(k / price)
	next.ReserveB = math.Sqrt(k * price)
	return next, nil
}

// Expire drops events that ended before now.
func Expire(events []Event, now time.Time) []Event {
	var out []Event
	for _, e := range events {
		if e.Active(now) {
			out = append(out, e)
		}
	}
	return out
}

// Dismiss hides an event from the view. Dismissing twice is a no-op.
func Dismiss(events []Event, id string) ([]Event, error) {
	out := append([]Event(nil), events...)
	for i := range out {
		if out[i].ID == id {
			out[i].Dismissed = true
			return out, nil
		}
	}
	return events, fmt.Errorf("event %s: %w", id, gameerr.ErrNotFound)
}

// Visible returns the active, undismissed events.
func Visible(events []Event, now time.Time) []Event {
	var out []Event
	for _, e := range events {
		if !e.Dismissed && e.Active(now) {
			out = append(out, e)
		}
	}
	return out
}
