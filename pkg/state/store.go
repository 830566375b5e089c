// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Persisted keys.
const (
	KeyGameState          = "mercado_lp_game_state"
	KeyOnboardingComplete = "mercado_lp_onboarding_complete"
	KeyNFTModalShown      = "mercado_lp_nft_modal_shown"
	KeyPendingNFTClaim    = "mercado_lp_pending_nft_claim"

	keyPrefix = "mercado_lp:"
)

// Store reads and writes one player's records over a KV backend.
type Store struct {
	kv KV
}

// NewStore creates a store.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// makeKey scopes key to a player.
func makeKey(playerID, key string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, playerID, key)
}

// LoadSnapshot returns the stored snapshot, or found=false if none exists.
func (s *Store) LoadSnapshot(ctx context.Context, playerID string) (Snapshot, bool, error) {
	data, err := s.kv.Get(ctx, makeKey(playerID, KeyGameState))
	if errors.Is(err, ErrKeyNotFound) {
		logrus.Infof("no existing snapshot for player %s", playerID)
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	snap, err := Decode(data)
	if err != nil {
		logrus.Errorf("failed to decode snapshot for player %s: %v", playerID, err)
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// SaveSnapshot writes snap at the current version.
func (s *Store) SaveSnapshot(ctx context.Context, playerID string, snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, makeKey(playerID, KeyGameState), data)
}

// DeleteSnapshot removes the stored snapshot.
func (s *Store) DeleteSnapshot(ctx context.Context, playerID string) error {
	return s.kv.Delete(ctx, makeKey(playerID, KeyGameState))
}

// Flag reads a boolean record. A missing record is false.
func (s *Store) Flag(ctx context.Context, playerID, key string) (bool, error) {
	data, err := s.kv.Get(ctx, makeKey(playerID, key))
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(string(data))
	if err != nil {
		return false, fmt.Errorf("flag %s: %w", key, err)
	}
	return v, nil
}

// SetFlag writes a boolean record.
func (s *Store) SetFlag(ctx context.Context, playerID, key string, value bool) error {
	return s.kv.Set(ctx, makeKey(playerID, key), []byte(strconv.FormatBool(value)))
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
