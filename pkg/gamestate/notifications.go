// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/market"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
)

func (s *Store) dismiss(ctx context.Context, c notify.Category) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	q, err := s.snap.Notifications.Dismiss(c)
	if err != nil {
		return Result{}, err
	}
	s.snap.Notifications = q
	return s.commit(ctx), nil
}

// DismissBadge clears the pending badge notification.
func (s *Store) DismissBadge(ctx context.Context) (Result, error) {
	return s.dismiss(ctx, notify.CategoryBadge)
}

// DismissLevelUp clears the pending level-up notification.
func (s *Store) DismissLevelUp(ctx context.Context) (Result, error) {
	return s.dismiss(ctx, notify.CategoryLevelUp)
}

// DismissTip clears the active tip.
func (s *Store) DismissTip(ctx context.Context) (Result, error) {
	return s.dismiss(ctx, notify.CategoryTip)
}

// DismissNFTClaim closes the NFT modal. Eligibility stays recorded.
func (s *Store) DismissNFTClaim(ctx context.Context) (Result, error) {
	return s.dismiss(ctx, notify.CategoryNFTClaim)
}

// DismissEvent hides a market event.
func (s *Store) DismissEvent(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	events, err := market.Dismiss(s.snap.Events, id)
	if err != nil {
		return Result{}, err
	}
	s.snap.Events = events
	return s.commit(ctx), nil
}

// DismissLoginPrompt closes the sign-in prompt. Its reason does not fire again this session.
func (s *Store) DismissLoginPrompt(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	if s.loginPrompt == nil {
		return Result{}, fmt.Errorf("no pending login prompt: %w", gameerr.ErrNotFound)
	}
	s.loginPrompt = nil
	return s.commit(ctx), nil
}

// SuppressLoginPrompt hides prompts for reason permanently.
func (s *Store) SuppressLoginPrompt(ctx context.Context, reason notify.LoginReason) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.begin(); err != nil {
		return Result{}, err
	}
	if !reason.Valid() {
		return Result{}, fmt.Errorf("login reason %q: %w", reason, gameerr.ErrNotFound)
	}
	s.setFlag(ctx, reason.SuppressKey(), true)
	if s.loginPrompt != nil && s.loginPrompt.Reason == reason {
		s.loginPrompt = nil
	}
	return s.commit(ctx), nil
}
