// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
)

// Hub keeps one store per player. Stores are restored on first access and
// their schedulers run until Release or Close.
type Hub struct {
	cfg       Config
	persist   *state.Store
	tickEvery time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	stores map[string]*Store
	closed bool
}

// NewHub creates a hub. A zero tickEvery disables background ticks.
func NewHub(cfg Config, persist *state.Store, tickEvery time.Duration) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:       cfg.withDefaults(),
		persist:   persist,
		tickEvery: tickEvery,
		ctx:       ctx,
		cancel:    cancel,
		stores:    map[string]*Store{},
	}
}

// Get returns the restored store of playerID.
func (h *Hub) Get(ctx context.Context, playerID string) (*Store, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is empty: %w", gameerr.ErrInvalidAmount)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("hub closed: %w", gameerr.ErrInvalidTransition)
	}
	if s, ok := h.stores[playerID]; ok {
		return s, nil
	}

	s := New(playerID, h.persist, h.cfg)
	if err := s.Restore(ctx); err != nil {
		return nil, err
	}
	if h.tickEvery > 0 {
		s.Start(h.ctx, h.tickEvery)
	}
	h.stores[playerID] = s
	metrics.ActiveSessions.Inc()

	logrus.Debugf("session %s opened, %d active", playerID, len(h.stores))
	return s, nil
}

// Release stops the scheduler of playerID and forgets its store. The next Get
// restores the player from the backend. It reports whether a session was open.
func (h *Hub) Release(playerID string) bool {
	h.mu.Lock()
	s, ok := h.stores[playerID]
	delete(h.stores, playerID)
	open := len(h.stores)
	h.mu.Unlock()

	if !ok {
		return false
	}
	s.Stop()
	metrics.ActiveSessions.Dec()
	logrus.Debugf("session %s closed, %d active", playerID, open)
	return true
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stores)
}

// Close stops every scheduler. The hub rejects Get afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	stores := h.stores
	h.stores = map[string]*Store{}
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	for _, s := range stores {
		s.Stop()
		metrics.ActiveSessions.Dec()
	}
	logrus.Infof("closed %d sessions", len(stores))
}
