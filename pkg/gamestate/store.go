// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package gamestate is the single mutation surface of a game session.
//
// Every action runs validate → engine → merge → persist and returns the
// derived view plus at most one newly queued notification. Persistence is a
// side effect: when the backend fails the session keeps playing in memory.
package gamestate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

const persistenceWarning = "Progress cannot be saved right now. You can keep playing; changes will be saved when storage is back."

// Result is the response of every mutating action.
type Result struct {
	View View `json:"view"`
	// Notification is the notification queued by this action, if any.
	Notification *notify.Notification `json:"notification,omitempty"`
}

// Store owns one player's game state.
type Store struct {
	mu       sync.Mutex
	cfg      Config
	playerID string
	persist  *state.Store

	league *league.Engine
	events *market.Generator

	snap   state.Snapshot
	tokens *token.Registry
	loaded bool
	// user is the last authenticated user seen on a request.
	user *User

	flags       map[string]bool
	loginShown  map[notify.LoginReason]bool
	loginPrompt *notify.LoginPrompt
	queued      *notify.Notification

	memoryOnly     bool
	warningPending bool
	// restorePending is set when Restore could not read the backend. Writes
	// stay off until the stored snapshot has been loaded.
	restorePending bool

	schedMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a store for playerID. persist may be nil for an in-memory session.
// Call Restore before any action.
func New(playerID string, persist *state.Store, cfg Config) *Store {
	cfg = cfg.withDefaults()
	seed := sessionSeed(cfg.Seed, playerID)
	return &Store{
		cfg:        cfg,
		playerID:   playerID,
		persist:    persist,
		league:     league.NewEngine(cfg.Roster, cfg.VolumeModel(seed)),
		events:     cfg.Events(seed),
		flags:      map[string]bool{},
		loginShown: map[notify.LoginReason]bool{},
	}
}

func (s *Store) log() *logrus.Entry {
	return logrus.WithField("player_id", s.playerID)
}

func (s *Store) now() time.Time {
	return s.cfg.Clock()
}

// persistedFlags are read into memory on restore.
func persistedFlags() []string {
	keys := []string{state.KeyOnboardingComplete, state.KeyNFTModalShown, state.KeyPendingNFTClaim}
	for _, r := range notify.LoginReasons {
		keys = append(keys, r.SuppressKey())
	}
	return keys
}

// Restore loads the player's snapshot and flags. A missing snapshot starts a
// new game. An unreachable backend starts the session in memory-only mode
// and the load is retried on recovery.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = s.defaultSnapshot()
	if s.persist != nil {
		if _, err := s.load(ctx); err != nil {
			s.restorePending = true
			s.degrade(err)
		}
	}
	s.rebuild()
	s.loaded = true

	s.log().Infof("session restored at block %d, level %d", s.snap.Block, s.snap.Player.Level)
	return nil
}

func (s *Store) defaultSnapshot() state.Snapshot {
	return DefaultSnapshot(s.playerID, s.cfg.StartingWallet, s.now())
}

// load reads the stored snapshot and flags into the session and reports
// whether a snapshot replaced the current one. It fails only when the
// backend is unreachable; an unreadable snapshot is discarded. Flags already
// set in memory are kept. Callers hold mu.
func (s *Store) load(ctx context.Context) (bool, error) {
	snap, found, err := s.persist.LoadSnapshot(ctx, s.playerID)
	switch {
	case err != nil && s.persist.Ping(ctx) != nil:
		return false, err
	case err != nil:
		s.log().Warnf("discarding unreadable snapshot: %v", err)
		found = false
	case found:
		s.snap = state.FillDefaults(snap, s.defaultSnapshot())
	}

	for _, key := range persistedFlags() {
		v, err := s.persist.Flag(ctx, s.playerID, key)
		if err != nil {
			s.log().Warnf("failed to read flag %s: %v", key, err)
			continue
		}
		s.flags[key] = s.flags[key] || v
	}
	return found, nil
}

// rebuild derives the in-memory registries from the snapshot. Callers hold mu.
func (s *Store) rebuild() {
	if s.flags[state.KeyOnboardingComplete] {
		s.snap.Session.OnboardingComplete = true
	}
	s.tokens = token.NewRegistry(s.snap.Tokens...)
	s.snap.Challenges, _ = s.cfg.Challenges.Refresh(s.snap.Challenges, s.now())
	s.recomputeLeague()
}

// begin resets per-action bookkeeping. Callers hold mu.
func (s *Store) begin() error {
	if !s.loaded {
		return fmt.Errorf("session %s not restored: %w", s.playerID, gameerr.ErrNotFound)
	}
	s.queued = nil
	return nil
}

// commit persists the snapshot and builds the action result. Callers hold mu.
func (s *Store) commit(ctx context.Context) Result {
	s.save(ctx)
	return Result{View: s.view(), Notification: s.queued}
}

// save writes the snapshot, retrying briefly. A failure switches the session
// to memory-only mode.
func (s *Store) save(ctx context.Context) {
	s.snap.UpdatedAt = s.now()
	if s.persist == nil || s.memoryOnly {
		return
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), 2), ctx)
	err := backoff.Retry(func() error {
		return s.persist.SaveSnapshot(ctx, s.playerID, s.snap)
	}, policy)
	if err != nil {
		s.degrade(err)
	}
}

// degrade switches to memory-only play. The warning is logged and shown once.
func (s *Store) degrade(err error) {
	if s.memoryOnly {
		return
	}
	s.memoryOnly = true
	s.warningPending = true
	metrics.PersistenceFailuresTotal.Inc()
	s.log().Warnf("%v: %v, continuing in memory", gameerr.ErrPersistenceUnavailable, err)
}

// recoverPersistence re-enables writes once the backend answers again. A
// session that started without reading the backend loads it first; a stored
// snapshot wins over progress made while offline.
func (s *Store) recoverPersistence(ctx context.Context) {
	if !s.memoryOnly || s.persist == nil {
		return
	}
	if err := s.persist.Ping(ctx); err != nil {
		return
	}
	if s.restorePending {
		offlineBlocks := s.snap.Block
		found, err := s.load(ctx)
		if err != nil {
			s.log().Warnf("stored snapshot still unreachable: %v", err)
			return
		}
		s.restorePending = false
		if found {
			s.log().Warnf("stored snapshot restored, discarding %d offline blocks", offlineBlocks)
		}
		s.rebuild()
	}

	s.memoryOnly = false
	s.log().Info("persistence is back, resuming snapshot writes")
	for key, v := range s.flags {
		if err := s.persist.SetFlag(ctx, s.playerID, key, v); err != nil {
			s.degrade(err)
			return
		}
	}
}

// MemoryOnly reports whether writes are currently suspended.
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryOnly
}

// setFlag updates a persisted boolean record.
func (s *Store) setFlag(ctx context.Context, key string, v bool) {
	s.flags[key] = v
	if s.persist == nil || s.memoryOnly {
		return
	}
	if err := s.persist.SetFlag(ctx, s.playerID, key, v); err != nil {
		s.degrade(err)
	}
}

// queue pushes a notification and remembers the first one of the action
// that reached its slot.
func (s *Store) queue(n notify.Notification) bool {
	q, ok := s.snap.Notifications.Push(n)
	if !ok {
		return false
	}
	s.snap.Notifications = q
	metrics.NotificationsTotal.WithLabelValues(string(n.Category)).Inc()

	shown := q.Get(n.Category)
	if shown.Key != n.Key && n.Category != notify.CategoryLevelUp {
		return true
	}
	if s.queued == nil || s.queued.Category == n.Category {
		s.queued = shown
	}
	return true
}

// currentUser resolves the authenticated user of ctx and remembers it, so
// background ticks still know the session is signed in.
func (s *Store) currentUser(ctx context.Context) (*User, error) {
	u, err := s.cfg.Users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u != nil {
		s.user = u
		return u, nil
	}
	return s.user, nil
}

// promptLogin raises the sign-in prompt for reason at most once per session.
// Suppressed reasons and authenticated sessions never prompt.
func (s *Store) promptLogin(ctx context.Context, reason notify.LoginReason) {
	if s.loginShown[reason] || s.flags[reason.SuppressKey()] || s.loginPrompt != nil {
		return
	}
	u, err := s.currentUser(ctx)
	if err != nil {
		s.log().Warnf("user lookup failed: %v", err)
		return
	}
	if u != nil {
		return
	}
	s.loginShown[reason] = true
	p := notify.NewLoginPrompt(reason)
	s.loginPrompt = &p
}

// recomputeLeague re-ranks the league and reports the player's rank.
func (s *Store) recomputeLeague() int {
	participants := s.league.Participants(s.playerID, s.snap.Player.CharacterName)
	s.snap.League.Entries = league.Rank(participants, s.snap.League.Volumes)
	return league.PlayerRank(s.snap.League.Entries)
}

// View returns the current view without mutating state.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Snapshot returns a copy of the canonical state.
func (s *Store) Snapshot() state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := state.Encode(s.snap)
	if err != nil {
		return s.snap
	}
	snap, err := state.Decode(data)
	if err != nil {
		return s.snap
	}
	return snap
}
