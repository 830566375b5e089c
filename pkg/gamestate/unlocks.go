// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamestate

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-mercado-lp/pkg/challenge"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/league"
	"github.com/AccelByte/extend-mercado-lp/pkg/metrics"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

// emit runs an activity through the unlock pipeline and applies what the
// fired rules asked for.
func (s *Store) emit(ctx context.Context, kind string, value float64, metadata map[string]interface{}) {
	if s.cfg.Unlocks == nil {
		return
	}

	pc := signal.NewPlayerContext(
		s.snap.Player.Clone(),
		s.snap.Streak.CurrentStreak,
		league.PlayerRank(s.snap.League.Entries),
		s.snap.FiredRules,
	)
	if u, err := s.currentUser(ctx); err == nil && u != nil {
		pc.PlatformUserID = u.ID
	}
	activity := signal.Activity{
		Kind:      kind,
		UserID:    s.playerID,
		Timestamp: s.now(),
		Value:     value,
		Metadata:  metadata,
	}

	res, err := s.cfg.Unlocks.Process(ctx, activity, pc)
	if err != nil {
		s.log().Warnf("unlock pipeline rejected %s activity: %v", kind, err)
		return
	}
	for _, ruleID := range res.Fired {
		metrics.UnlocksTotal.WithLabelValues(ruleID).Inc()
	}
	s.applyEffects(ctx, res.Effects)
}

func (s *Store) applyEffects(ctx context.Context, eff *signal.Effects) {
	if eff == nil || eff.Empty() {
		return
	}
	for _, id := range eff.Badges {
		s.awardBadge(id)
	}
	for _, g := range eff.XP {
		s.addXP(ctx, g.Amount, g.Source)
	}
	if eff.NFTClaim {
		s.raiseNFTClaim(ctx)
	}
}

func (s *Store) awardBadge(id string) {
	next, awarded, err := s.cfg.Progression.AwardBadge(s.snap.Player, id)
	if err != nil {
		s.log().Errorf("failed to award badge: %v", err)
		return
	}
	if !awarded {
		return
	}
	s.snap.Player = next

	badge, _ := s.cfg.Progression.Badge(id)
	s.queue(notify.Notification{
		Key:      "badge:" + id,
		Category: notify.CategoryBadge,
		Title:    badge.Name,
		Body:     badge.Description,
		Emoji:    badge.Emoji,
	})
	s.log().Infof("badge %s awarded", id)
}

// addXP grants XP. A level crossing queues the level-up notification, may
// prompt sign-in and feeds a level_up activity back into the pipeline.
func (s *Store) addXP(ctx context.Context, amount int64, source string) {
	if amount <= 0 {
		return
	}
	before := s.snap.Player.XP
	next, levelUp, err := s.cfg.Progression.AddXp(s.snap.Player, amount, source)
	if err != nil {
		s.log().Errorf("failed to add xp: %v", err)
		return
	}
	s.snap.Player = next
	metrics.XPGrantedTotal.WithLabelValues(source).Add(float64(amount))

	if before < xpMilestone && next.XP >= xpMilestone {
		s.promptLogin(ctx, notify.LoginXPMilestone)
	}
	if levelUp == nil {
		return
	}

	s.log().Infof("level up %d -> %d from %s", levelUp.From, levelUp.To, source)
	s.queue(notify.Notification{
		Key:      fmt.Sprintf("level:%d", levelUp.To),
		Category: notify.CategoryLevelUp,
		Title:    fmt.Sprintf("Level %d", levelUp.To),
		Emoji:    "⭐",
		From:     levelUp.From,
		To:       levelUp.To,
	})
	s.promptLogin(ctx, notify.LoginLevelUp)
	s.emit(ctx, signal.TypeLevelUp, float64(levelUp.To), map[string]interface{}{"from": levelUp.From})
}

// raiseNFTClaim records NFT-claim eligibility. The modal is queued only once per player.
func (s *Store) raiseNFTClaim(ctx context.Context) {
	s.setFlag(ctx, state.KeyPendingNFTClaim, true)
	if !s.flags[state.KeyNFTModalShown] {
		if s.queue(notify.Notification{
			Key:      "nft_claim",
			Category: notify.CategoryNFTClaim,
			Title:    "Collectible unlocked",
			Body:     "You are eligible to claim a Mercado LP collectible.",
			Emoji:    "🎁",
		}) {
			s.setFlag(ctx, state.KeyNFTModalShown, true)
		}
	}
	s.promptLogin(ctx, notify.LoginNFTClaim)
}

// pay credits a challenge or streak reward. Token rewards are paid in the quote token.
func (s *Store) pay(ctx context.Context, r challenge.Reward, source string) {
	if r.Tokens > 0 {
		s.credit(token.QuoteTokenID, r.Tokens)
	}
	s.addXP(ctx, r.XP, source)
}

func (s *Store) credit(tokenID string, amount float64) {
	if amount <= 0 {
		return
	}
	if s.snap.Player.Wallet == nil {
		s.snap.Player.Wallet = map[string]float64{}
	}
	s.snap.Player.Wallet[tokenID] += amount
}

// ensureBalance fails with ErrInsufficientBalance when the wallet cannot cover amount.
func (s *Store) ensureBalance(tokenID string, amount float64) error {
	if have := s.snap.Player.Wallet[tokenID]; have < amount {
		return fmt.Errorf("%s balance %.4f below %.4f: %w", tokenID, have, amount, gameerr.ErrInsufficientBalance)
	}
	return nil
}

func (s *Store) debit(tokenID string, amount float64) {
	s.snap.Player.Wallet[tokenID] -= amount
}

// progress records challenge progress.
func (s *Store) progress(kind challenge.Kind, amount float64) {
	next, completed := challenge.RecordProgress(s.snap.Challenges, kind, amount)
	s.snap.Challenges = next
	for _, c := range completed {
		s.log().Infof("challenge %s completed", c.ID)
	}
}
