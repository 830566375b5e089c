// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mercado-lp/pkg/common"
	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
	"github.com/AccelByte/extend-mercado-lp/pkg/gamestate"
	"github.com/AccelByte/extend-mercado-lp/pkg/notify"
	"github.com/AccelByte/extend-mercado-lp/pkg/session"
)

// Request headers.
const (
	HeaderPlayerID = "X-Player-ID"
	HeaderUserID   = "X-User-ID"
)

// HTTPServer serves the game API.
type HTTPServer struct {
	server *http.Server
	port   int
	hub    *gamestate.Hub
	probe  HealthProbe
	mux    *chi.Mux
}

// NewHTTPServer creates the API server. A nil probe always reports healthy.
func NewHTTPServer(port int, hub *gamestate.Hub, probe HealthProbe) *HTTPServer {
	s := &HTTPServer{
		port:  port,
		hub:   hub,
		probe: probe,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

// action is one store operation behind a route.
type action func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error)

func (s *HTTPServer) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(traceContext)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handle("state", func(_ context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
			return gamestate.Result{View: st.View()}, nil
		}))

		r.Post("/swap/quote", s.handle("swap.quote", func(_ context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.SwapRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.Quote(req)
		}))
		r.Post("/swap", s.handle("swap", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.SwapRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.Swap(ctx, req)
		}))

		r.Post("/liquidity/add", s.handle("liquidity.add", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.AddLiquidityRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.AddLiquidity(ctx, req)
		}))
		r.Post("/liquidity/remove", s.handle("liquidity.remove", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.RemoveLiquidityRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.RemoveLiquidity(ctx, req)
		}))

		r.Post("/tokens/launch", s.handle("tokens.launch", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.LaunchRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.LaunchToken(ctx, req)
		}))
		r.Post("/auctions/{tokenId}/bids", s.handle("auctions.bid", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var req gamestate.BidRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, err
			}
			return st.PlaceBid(ctx, chi.URLParam(r, "tokenId"), req)
		}))
		r.Post("/auctions/{tokenId}/advance", s.handle("auctions.advance", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			return st.AdvanceAuctionBlock(ctx, chi.URLParam(r, "tokenId"))
		}))
		r.Post("/tutorial/auction", s.handle("tutorial.auction", func(ctx context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
			return st.StartAuctionTutorial(ctx)
		}))

		r.Route("/session", func(r chi.Router) {
			r.Post("/close", s.handleClose)
			r.Post("/role", s.handle("session.role", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
				var in struct {
					Role session.Role `json:"role"`
				}
				if err := decodeJSON(r, &in); err != nil {
					return nil, err
				}
				return st.SelectRole(ctx, in.Role)
			}))
			r.Post("/onboarding/complete", s.handle("session.onboarding.complete", func(ctx context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
				return st.CompleteOnboarding(ctx)
			}))
			r.Post("/onboarding/skip", s.handle("session.onboarding.skip", func(ctx context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
				return st.SkipOnboarding(ctx)
			}))
			r.Post("/level", s.handle("session.level", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
				var in struct {
					Level session.Stage `json:"level"`
				}
				if err := decodeJSON(r, &in); err != nil {
					return nil, err
				}
				return st.SetCurrentLevel(ctx, in.Level)
			}))
			r.Post("/map/open", s.handle("session.map.open", func(ctx context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
				return st.OpenMap(ctx)
			}))
			r.Post("/map/close", s.handle("session.map.close", func(ctx context.Context, st *gamestate.Store, _ *http.Request) (any, error) {
				return st.CloseMap(ctx)
			}))
		})

		r.Post("/player/avatar", s.handle("player.avatar", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var in struct {
				Avatar string `json:"avatar"`
			}
			if err := decodeJSON(r, &in); err != nil {
				return nil, err
			}
			return st.SetPlayerAvatar(ctx, in.Avatar)
		}))
		r.Post("/player/name", s.handle("player.name", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var in struct {
				Name string `json:"name"`
			}
			if err := decodeJSON(r, &in); err != nil {
				return nil, err
			}
			return st.SetPlayerCharacterName(ctx, in.Name)
		}))

		r.Post("/notifications/{kind}/dismiss", s.handle("notifications.dismiss", s.dismiss))
		r.Post("/login-prompt/suppress", s.handle("login_prompt.suppress", func(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
			var in struct {
				Reason notify.LoginReason `json:"reason"`
			}
			if err := decodeJSON(r, &in); err != nil {
				return nil, err
			}
			return st.SuppressLoginPrompt(ctx, in.Reason)
		}))

		r.Post("/rewards/{kind}", s.handle("rewards.claim", s.claim))
	})
}

func (s *HTTPServer) dismiss(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
	switch kind := chi.URLParam(r, "kind"); kind {
	case "badge":
		return st.DismissBadge(ctx)
	case "levelup":
		return st.DismissLevelUp(ctx)
	case "tip":
		return st.DismissTip(ctx)
	case "nft":
		return st.DismissNFTClaim(ctx)
	case "login":
		return st.DismissLoginPrompt(ctx)
	case "event":
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(r, &in); err != nil {
			return nil, err
		}
		return st.DismissEvent(ctx, in.ID)
	default:
		return nil, fmt.Errorf("notification kind %q: %w", kind, gameerr.ErrNotFound)
	}
}

func (s *HTTPServer) claim(ctx context.Context, st *gamestate.Store, r *http.Request) (any, error) {
	switch kind := chi.URLParam(r, "kind"); kind {
	case "streak":
		return st.ClaimStreakReward(ctx)
	case "daily":
		return st.ClaimDailyBonus(ctx)
	case "all":
		return st.ClaimAllCompletedBonus(ctx)
	case "challenge":
		var in struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(r, &in); err != nil {
			return nil, err
		}
		return st.ClaimChallenge(ctx, in.ID)
	default:
		return nil, fmt.Errorf("reward kind %q: %w", kind, gameerr.ErrNotFound)
	}
}

// handle resolves the player's store and runs fn inside a traced scope.
func (s *HTTPServer) handle(name string, fn action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
		scope := common.GetScopeFromContext(r.Context(), "http."+name).WithPlayer(playerID)
		defer scope.Finish()
		scope.SetAttributes("http.route", r.URL.Path)

		ctx := scope.Ctx
		if userID := strings.TrimSpace(r.Header.Get(HeaderUserID)); userID != "" {
			ctx = gamestate.WithUser(ctx, &gamestate.User{ID: userID})
		}

		st, err := s.hub.Get(ctx, playerID)
		if err == nil {
			var out any
			out, err = fn(ctx, st, r.WithContext(ctx))
			if err == nil {
				writeJSON(w, http.StatusOK, out)
				return
			}
		}

		scope.TraceError(err)
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			scope.Log.Errorf("%s failed for player %s: %v", name, playerID, err)
		} else {
			scope.Log.Debugf("%s rejected for player %s: %v", name, playerID, err)
		}
		writeError(w, status, err.Error())
	}
}

// handleClose tears down the player's session. Closing twice is not an error.
func (s *HTTPServer) handleClose(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(r.Header.Get(HeaderPlayerID))
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player id is empty")
		return
	}
	released := s.hub.Release(playerID)
	logrus.WithField("playerID", playerID).Debugf("session close requested, released=%t", released)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "released": released})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.probe != nil {
		if err := s.probe.Check(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gameerr.ErrInvalidAmount),
		errors.Is(err, gameerr.ErrSlippageExceeded),
		errors.Is(err, gameerr.ErrInsufficientLiquidity):
		return http.StatusBadRequest
	case errors.Is(err, gameerr.ErrAuctionClosed),
		errors.Is(err, gameerr.ErrNoRewardAvailable),
		errors.Is(err, gameerr.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, gameerr.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, gameerr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, gameerr.ErrInvalidAmount)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Warnf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

// Start begins serving the API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("HTTP API listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP API failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the API server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logrus.Info("shutting down HTTP API...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("HTTP API stopped")
	return nil
}
