// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package gameerr holds the error taxonomy shared by every game engine.
// All errors are recoverable: callers surface them to the player and keep the session alive.
package gameerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount indicates a non-positive or otherwise unusable quantity.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientLiquidity indicates a pool cannot honour the requested trade.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrSlippageExceeded indicates the executed output fell below the caller's minimum.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrAuctionClosed indicates the auction no longer accepts bids or blocks.
	ErrAuctionClosed = errors.New("auction closed")

	// ErrNoRewardAvailable indicates the reward for the period was already claimed.
	ErrNoRewardAvailable = errors.New("no reward available")

	// ErrPersistenceUnavailable indicates snapshots cannot be written right now.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrNotFound indicates an unknown token, pool, position, auction or challenge.
	ErrNotFound = errors.New("not found")

	// ErrLevelLocked indicates the player level is too low for the requested stage.
	ErrLevelLocked = errors.New("level locked")

	// ErrInvalidTransition indicates a session-flow move that is not allowed from the current stage.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrRatioMismatch indicates a liquidity deposit that does not match the pool ratio.
	ErrRatioMismatch = fmt.Errorf("%w: deposit ratio does not match pool", ErrInvalidAmount)

	// ErrInsufficientBalance indicates the player wallet cannot cover the amount.
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrInvalidAmount)
)
