// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AccelByte/extend-mercado-lp/internal/bootstrap"
	actionBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/action/builtin"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/gamestate"
	"github.com/AccelByte/extend-mercado-lp/pkg/pipeline"
	"github.com/AccelByte/extend-mercado-lp/pkg/progression"
	"github.com/AccelByte/extend-mercado-lp/pkg/state"
	"github.com/AccelByte/extend-mercado-lp/pkg/token"
)

type simulateOptions struct {
	ticks    int
	swapSize float64
	seed     int64
	config   string
	verbose  bool
}

func newSimulateCmd() *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play an offline session against the NPC league",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.ticks, "ticks", 20, "number of market blocks to simulate")
	cmd.Flags().Float64Var(&opts.swapSize, "swap", 25, "peso spent on mango every block")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "seed for the NPC league and market events")
	cmd.Flags().StringVar(&opts.config, "config", "", "unlock pipeline YAML, embedded default when empty")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "log every store action")
	return cmd
}

// runSimulation drives a single store backed by an in-process Redis.
func runSimulation(ctx context.Context, opts simulateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.verbose {
		logrus.SetLevel(logrus.WarnLevel)
	}

	mr, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("failed to start embedded redis: %w", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pcfg, err := pipeline.LoadConfig(opts.config)
	if err != nil {
		return err
	}
	progress := progression.NewEngine(progression.DefaultTable(), nil)
	manager, err := bootstrap.InitPipeline(pcfg, &actionBuiltin.Dependencies{Badges: progress}, nil)
	if err != nil {
		return err
	}

	// derived from the seed so the same seed replays the same market
	playerID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.FormatInt(opts.seed, 10))).String()
	store := gamestate.New(playerID, state.NewStore(state.NewRedisKV(client, time.Hour)), gamestate.Config{
		Progression: progress,
		Unlocks:     manager,
		Seed:        opts.seed,
	})
	if err := store.Restore(ctx); err != nil {
		return err
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Printf("simulating %d blocks for player %s\n", opts.ticks, playerID)

	for i := 0; i < opts.ticks; i++ {
		res, err := store.Swap(ctx, gamestate.SwapRequest{
			TokenIn:     token.QuoteTokenID,
			TokenOut:    "mango",
			AmountIn:    opts.swapSize,
			SlippageBps: 100,
		})
		switch {
		case errors.Is(err, gameerr.ErrInvalidAmount), errors.Is(err, gameerr.ErrSlippageExceeded):
			color.Yellow("block %d: swap skipped: %v", i, err)
		case err != nil:
			return err
		case res.Notification != nil:
			color.Magenta("block %d: %s %s", i, res.Notification.Emoji, res.Notification.Title)
		}

		if _, err := store.Tick(ctx); err != nil {
			return err
		}
	}

	printSummary(store.View())
	return nil
}

func printSummary(v gamestate.View) {
	bold := color.New(color.Bold)

	bold.Println("\npools")
	for _, p := range v.Pools {
		fmt.Printf("  %-14s %10.4f %s/%s\n", p.ID, p.SpotPrice(), p.TokenB, p.TokenA)
	}

	bold.Println("\nplayer")
	fmt.Printf("  level %d, %d xp, %d swaps, %d badges\n",
		v.Player.Level, v.Player.XP, v.Player.Stats.Swaps, len(v.Player.Badges))
	for id, amount := range v.Player.Wallet {
		fmt.Printf("  %-8s %12.4f\n", id, amount)
	}

	bold.Println("\nleague")
	for _, e := range v.TradingLeague {
		line := fmt.Sprintf("  #%-2d %-16s %12.2f", e.Rank, e.Name, e.Volume)
		if e.IsPlayer {
			color.Green("%s", line)
			continue
		}
		fmt.Println(line)
	}
}
