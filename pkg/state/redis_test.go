// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestStore_LoadSnapshot_NewPlayer(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	store := NewStore(NewRedisKV(client, 0))

	_, found, err := store.LoadSnapshot(context.Background(), "new-player")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if found {
		t.Error("LoadSnapshot() found a snapshot for a new player")
	}
}

func TestStore_SaveAndLoadSnapshot(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := NewStore(NewRedisKV(client, time.Hour))

	snap := Snapshot{
		Player: progression.Player{ID: "p1", Level: 3, XP: 300, Badges: []string{"first_swap"}},
		League: LeagueState{Volumes: map[string]float64{"p1": 42}},
		Block:  7,
	}
	if err := store.SaveSnapshot(ctx, "p1", snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	key := "mercado_lp:p1:mercado_lp_game_state"
	if !mr.Exists(key) {
		t.Fatalf("key %s not written", key)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("TTL = %v, expected 1h", ttl)
	}

	got, found, err := store.LoadSnapshot(ctx, "p1")
	if err != nil || !found {
		t.Fatalf("LoadSnapshot() = %v, %v", found, err)
	}
	if got.Version != SnapshotVersion {
		t.Errorf("Version = %d, expected %d", got.Version, SnapshotVersion)
	}
	if got.Player.XP != 300 || got.Block != 7 || got.League.Volumes["p1"] != 42 {
		t.Errorf("snapshot = %+v", got)
	}

	if err := store.DeleteSnapshot(ctx, "p1"); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}
	if mr.Exists(key) {
		t.Error("snapshot still present after delete")
	}
}

func TestStore_Flags(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	ctx := context.Background()
	store := NewStore(NewRedisKV(client, 0))

	v, err := store.Flag(ctx, "p1", KeyOnboardingComplete)
	if err != nil || v {
		t.Fatalf("Flag(missing) = %v, %v", v, err)
	}
	if err := store.SetFlag(ctx, "p1", KeyOnboardingComplete, true); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}
	v, err = store.Flag(ctx, "p1", KeyOnboardingComplete)
	if err != nil || !v {
		t.Errorf("Flag() = %v, %v; expected true", v, err)
	}

	// Other players are isolated.
	if v, _ := store.Flag(ctx, "p2", KeyOnboardingComplete); v {
		t.Error("flag leaked across players")
	}
}

func TestRedisKV_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	kv := NewRedisKV(client, 0)
	mr.Close()

	ctx := context.Background()
	if err := kv.Set(ctx, "k", []byte("v")); err == nil {
		t.Error("Set() succeeded against a closed server")
	}
	if NewHealthChecker(kv, "redis").IsHealthy(ctx) {
		t.Error("health check passed against a closed server")
	}
	if _, err := kv.Get(ctx, "k"); err == nil || errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() error = %v, expected a connection error", err)
	}
}

func TestInitRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client, err := InitRedisClient(context.Background(), RedisOptions{Host: mr.Host(), Port: mr.Port(), MaxRetries: 1})
	if err != nil {
		t.Fatalf("InitRedisClient() error = %v", err)
	}
	defer client.Close()

	if !NewHealthChecker(NewRedisKV(client, 0), "redis").IsHealthy(context.Background()) {
		t.Error("expected healthy client")
	}
}
