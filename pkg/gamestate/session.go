// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
)

const maxCharacterName = 24

// moveTo applies a flow transition and follows it with navigation.
func (s *Store) moveTo(flow session.Flow) {
	s.snap.Session = flow
	s.snap.Player.CurrentLevel = flow.Stage
	s.cfg.Navigator.Navigate("/" + string(flow.Stage))
}

// SelectRole leaves the start screen.
func (s *Store) SelectRole(ctx context.Context, role session.Role) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	flow, err := s.snap.Session.SelectRole(role)
	if err != nil {
		return Result{}, err
	}
	s.snap.Player.Role = role
	s.moveTo(flow)
	return s.commit(ctx), nil
}

// CompleteOnboarding finishes the tutorial with its XP reward.
func (s *Store) CompleteOnboarding(ctx context.Context) (Result, error) {
	return s.finishOnboarding(ctx, true)
}

// SkipOnboarding leaves the tutorial without reward.
func (s *Store) SkipOnboarding(ctx context.Context) (Result, error) {
	return s.finishOnboarding(ctx, false)
}

func (s *Store) finishOnboarding(ctx context.Context, completed bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	flow, err := s.snap.Session.FinishOnboarding()
	if err != nil {
		return Result{}, err
	}
	s.moveTo(flow)
	s.setFlag(ctx, state.KeyOnboardingComplete, true)
	if completed {
		s.addXP(ctx, XPOnboarding, "onboarding")
	}
	return s.commit(ctx), nil
}

// SetCurrentLevel enters a stage. Game stages may be level gated; the first
// visit of a stage activates its tip.
func (s *Store) SetCurrentLevel(ctx context.Context, stage session.Stage) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	flow, first, err := s.snap.Session.Enter(stage, s.snap.Player.Level, s.cfg.Gates)
	if err != nil {
		return Result{}, err
	}
	s.moveTo(flow)

	if stage.IsGame() {
		s.progress(challenge.KindVisitLevel, 1)
		if first {
			if tip, ok := tipFor(stage); ok {
				s.queue(tip)
			}
		}
	}
	return s.commit(ctx), nil
}

// OpenMap shows the market map.
func (s *Store) OpenMap(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	flow, err := s.snap.Session.OpenMap()
	if err != nil {
		return Result{}, err
	}
	s.snap.Session = flow
	return s.commit(ctx), nil
}

// CloseMap hides the market map.
func (s *Store) CloseMap(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	s.snap.Session = s.snap.Session.CloseMap()
	return s.commit(ctx), nil
}

// SetPlayerAvatar sets the avatar id.
func (s *Store) SetPlayerAvatar(ctx context.Context, avatar string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return Result{}, fmt.Errorf("avatar is empty: %w", gameerr.ErrInvalidAmount)
	}
	s.snap.Player.Avatar = avatar
	return s.commit(ctx), nil
}

// SetPlayerCharacterName renames the player, also on the leaderboard.
func (s *Store) SetPlayerCharacterName(ctx context.Context, name string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxCharacterName {
		return Result{}, fmt.Errorf("character name must be 1-%d characters: %w", maxCharacterName, gameerr.ErrInvalidAmount)
	}
	s.snap.Player.CharacterName = name
	s.recomputeLeague()
	return s.commit(ctx), nil
}
