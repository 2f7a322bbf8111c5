package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/doomlife/pulse/internal/streak"
	"github.com/doomlife/pulse/pkg/httputil"
)

type ClaimMilestoneResponse struct {
	Days  int     `json:"days"`
	Bonus float64 `json:"bonus"`
}

func (s *Server) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get streak error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	status, err := s.streakService.Status(ctx, uid)
	if err != nil {
		logger.Error("get streak error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting streak", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, status)
}

func (s *Server) GetMilestones(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if _, err := GetUIDFromContext(r); err != nil {
		logger.Error("get milestones error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"milestones": streak.Milestones,
	})
}

func (s *Server) ClaimMilestone(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("claim milestone error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	days, err := strconv.Atoi(r.PathValue("days"))
	if err != nil || days < 1 {
		logger.Error("claim milestone error: invalid days in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid milestone days in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	bonus, err := s.streakService.ClaimMilestone(ctx, uid, days)
	if err != nil {
		logger.Error("claim milestone error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while claiming milestone", nil)
		return
	}
	if bonus == 0 {
		logger.Error("claim milestone error: nothing to claim")
		httputil.WriteErrorResponse(w, http.StatusConflict, "milestone unreached, unknown or already claimed", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ClaimMilestoneResponse{
		Days:  days,
		Bonus: bonus,
	})
	logger.Info("milestone claimed", slog.Int("days", days))
}

func (s *Server) ResetStreak(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("reset streak error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.streakService.Reset(ctx, uid); err != nil {
		logger.Error("reset streak error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while resetting streak", nil)
		return
	}
	logger.Info("streak reset")
}
