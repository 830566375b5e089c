// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import "fmt"

// LoginReason is why the game asks an anonymous player to sign in.
type LoginReason string

const (
	LoginLevelUp     LoginReason = "level_up"
	LoginXPMilestone LoginReason = "xp_milestone"
	LoginLeaderboard LoginReason = "leaderboard"
	LoginNFTClaim    LoginReason = "nft_claim"
)

// LoginReasons lists every reason.
var LoginReasons = []LoginReason{LoginLevelUp, LoginXPMilestone, LoginLeaderboard, LoginNFTClaim}

// Valid reports whether r is known.
func (r LoginReason) Valid() bool {
	for _, v := range LoginReasons {
		if v == r {
			return true
		}
	}
	return false
}

// SuppressKey is the persisted flag that hides prompts for r.
func (r LoginReason) SuppressKey() string {
	return fmt.Sprintf("mercado_lp_hide_login_prompt_%s", r)
}

// LoginPrompt is the pending sign-in prompt.
type LoginPrompt struct {
	Reason  LoginReason `json:"reason"`
	Message string      `json:"message"`
}

var loginMessages = map[LoginReason]string{
	LoginLevelUp:     "Sign in to keep your new level.",
	LoginXPMilestone: "You are racking up XP. Sign in to save it.",
	LoginLeaderboard: "You made the league podium. Sign in to claim your spot.",
	LoginNFTClaim:    "You earned a collectible. Sign in to claim it.",
}

// NewLoginPrompt builds the prompt for r.
func NewLoginPrompt(r LoginReason) LoginPrompt {
	return LoginPrompt{Reason: r, Message: loginMessages[r]}
}
