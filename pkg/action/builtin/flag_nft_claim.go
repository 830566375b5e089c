package builtin

import (
	"context"

	"github.com/AccelByte/extend-mercado-lp/pkg/action"
	"github.com/AccelByte/extend-mercado-lp/pkg/rule"
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// FlagNFTClaimActionID is the identifier for the NFT eligibility action
	FlagNFTClaimActionID = "flag_nft_claim"
)

// FlagNFTClaimAction marks the player eligible to claim a commemorative NFT.
// Nothing is minted; the store only raises the claim prompt.
type FlagNFTClaimAction struct {
	config action.ActionConfig
}

// NewFlagNFTClaimAction creates the eligibility action.
func NewFlagNFTClaimAction(config action.ActionConfig) *FlagNFTClaimAction {
	return &FlagNFTClaimAction{config: config}
}

// ID returns the action identifier.
func (a *FlagNFTClaimAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *FlagNFTClaimAction) Name() string {
	return "Flag NFT Claim"
}

// Config returns the action configuration.
func (a *FlagNFTClaimAction) Config() action.ActionConfig {
	return a.config
}

// Execute records eligibility.
func (a *FlagNFTClaimAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	logrus.Infof("user %s eligible for NFT claim (rule %s)", trigger.UserID, trigger.RuleID)
	playerCtx.Effects.NFTClaim = true
	return nil
}

// Rollback clears eligibility.
func (a *FlagNFTClaimAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if playerCtx == nil {
		return action.ErrMissingPlayerContext
	}
	playerCtx.Effects.NFTClaim = false
	return nil
}
