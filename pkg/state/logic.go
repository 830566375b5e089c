// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/auction"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
)

// snapshotWire shadows League so both the v1 list and the v2 object decode.
type snapshotWire struct {
	Snapshot
	League json.RawMessage `json:"league"`
}

// Decode parses a stored snapshot of any known version and migrates it to
// SnapshotVersion. Fields missing from the record are left zero; call
// FillDefaults afterwards.
func Decode(data []byte) (Snapshot, error) {
	var wire snapshotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	snap := wire.Snapshot

	raw := bytes.TrimSpace(wire.League)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '[':
		var entries []league.Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return Snapshot{}, fmt.Errorf("failed to unmarshal legacy league: %w", err)
		}
		snap.League = LeagueState{Volumes: make(map[string]float64, len(entries)), Entries: entries}
		for _, e := range entries {
			snap.League.Volumes[e.PlayerID] = e.Volume
		}
	default:
		if err := json.Unmarshal(raw, &snap.League); err != nil {
			return Snapshot{}, fmt.Errorf("failed to unmarshal league: %w", err)
		}
	}

	if snap.Version < SnapshotVersion {
		logrus.Infof("migrating snapshot from version %d to %d", snap.Version, SnapshotVersion)
		snap.Version = SnapshotVersion
	}
	if snap.Version > SnapshotVersion {
		logrus.Warnf("snapshot version %d is newer than supported %d, unknown fields are ignored", snap.Version, SnapshotVersion)
	}
	return snap, nil
}

// Encode serialises a snapshot at the current version.
func Encode(s Snapshot) ([]byte, error) {
	s.Version = SnapshotVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// FillDefaults copies every missing field of s from def.
func FillDefaults(s Snapshot, def Snapshot) Snapshot {
	if len(s.Tokens) == 0 {
		s.Tokens = def.Tokens
	}
	if len(s.Pools) == 0 {
		s.Pools = def.Pools
	}
	if s.Auctions == nil {
		s.Auctions = def.Auctions
		if s.Auctions == nil {
			s.Auctions = map[string]auction.Auction{}
		}
	}

	if s.Player.ID == "" {
		s.Player.ID = def.Player.ID
	}
	if s.Player.Wallet == nil {
		s.Player.Wallet = def.Player.Clone().Wallet
	}
	if s.Player.Badges == nil {
		s.Player.Badges = []string{}
	}
	if s.Player.Level < 1 {
		s.Player.Level = 1
	}
	if s.Player.CurrentLevel == "" {
		s.Player.CurrentLevel = session.StageStart
	}

	if s.League.Volumes == nil {
		s.League.Volumes = map[string]float64{}
	}
	if s.Notifications.Pending == nil || s.Notifications.Fired == nil {
		q := notify.NewQueue()
		for k, v := range s.Notifications.Pending {
			q.Pending[k] = v
		}
		for k, v := range s.Notifications.Fired {
			q.Fired[k] = v
		}
		q.Waiting = s.Notifications.Waiting
		s.Notifications = q
	}
	if s.Session.Stage == "" {
		s.Session.Stage = s.Player.CurrentLevel
	}
	if s.Session.Visited == nil {
		s.Session.Visited = map[session.Stage]bool{}
	}
	if s.FiredRules == nil {
		s.FiredRules = map[string]bool{}
	}
	s.Version = SnapshotVersion
	return s
}
