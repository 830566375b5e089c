// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progression

// Badge is a catalog entry.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

const (
	BadgeFirstSwap       = "first_swap"
	BadgeFirstLiquidity  = "first_liquidity"
	BadgeTokenCreator    = "token_creator"
	BadgeAuctionWinner   = "auction_winner"
	BadgeStreak7         = "streak_7"
	BadgeChallengeMaster = "challenge_master"
	BadgeLeagueTop3      = "league_top3"
	BadgeMarketMaker     = "market_maker"
	BadgeFeeCollector    = "fee_collector"
)

// DefaultBadges is the built-in badge catalog.
func DefaultBadges() []Badge {
	return []Badge{
		{ID: BadgeFirstSwap, Name: "Primer Trueque", Emoji: "🔄", Description: "Complete your first swap"},
		{ID: BadgeFirstLiquidity, Name: "Puestero", Emoji: "🏪", Description: "Provide liquidity to a pool"},
		{ID: BadgeTokenCreator, Name: "Creador", Emoji: "🪙", Description: "Launch your own token"},
		{ID: BadgeAuctionWinner, Name: "Postor Ganador", Emoji: "🔨", Description: "Win tokens in a launch auction"},
		{ID: BadgeStreak7, Name: "Semana Completa", Emoji: "🔥", Description: "Keep a 7 day streak"},
		{ID: BadgeChallengeMaster, Name: "Retador", Emoji: "🎯", Description: "Complete 10 daily challenges"},
		{ID: BadgeLeagueTop3, Name: "Podio", Emoji: "🏆", Description: "Reach the top 3 of the trading league"},
		{ID: BadgeMarketMaker, Name: "Market Maker", Emoji: "⚖️", Description: "Reach level 5 and unlock the Market Maker stage"},
		{ID: BadgeFeeCollector, Name: "Cobrador", Emoji: "💰", Description: "Collect 10 in LP fees"},
	}
}
