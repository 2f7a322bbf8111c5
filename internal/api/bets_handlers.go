package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/safeguard"
	"github.com/doomlife/pulse/internal/service"
	"github.com/doomlife/pulse/pkg/httputil"
)

type PlaceBetRequest struct {
	Outcome  string          `json:"outcome"`
	Amount   decimal.Decimal `json:"amount"`
	DoomPool decimal.Decimal `json:"doom_pool"`
	LifePool decimal.Decimal `json:"life_pool"`
}

type SettleBetRequest struct {
	Outcome  string          `json:"outcome"`
	Resolved string          `json:"resolved"`
	Amount   decimal.Decimal `json:"amount"`
	DoomPool decimal.Decimal `json:"doom_pool"`
	LifePool decimal.Decimal `json:"life_pool"`
}

type SetLimitsRequest struct {
	DailyWagerCap decimal.Decimal `json:"daily_wager_cap"`
	DailyLossCap  decimal.Decimal `json:"daily_loss_cap"`
}

type CoolingOffRequest struct {
	Hours int `json:"hours"`
}

func (s *Server) PlaceBet(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("place bet error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req PlaceBetRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("place bet error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	ticket, err := s.betsService.PlaceBet(ctx, uid, &service.PlaceBetRequest{
		Outcome:  req.Outcome,
		Amount:   req.Amount,
		DoomPool: req.DoomPool,
		LifePool: req.LifePool,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUnknownOutcome) || strings.HasPrefix(err.Error(), "validation error"):
			logger.Error("place bet error: invalid request", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid bet", err)
		default:
			logger.Error("place bet error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while placing bet", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ticket)
	logger.Info("bet placed", slog.String("verdict", ticket.Verdict))
}

func (s *Server) SettleBet(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("settle bet error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SettleBetRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("settle bet error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	settlement, err := s.betsService.SettleBet(ctx, uid, &service.SettleBetRequest{
		Outcome:  req.Outcome,
		Resolved: req.Resolved,
		Amount:   req.Amount,
		DoomPool: req.DoomPool,
		LifePool: req.LifePool,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUnknownOutcome) || strings.HasPrefix(err.Error(), "validation error"):
			logger.Error("settle bet error: invalid request", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid settlement", err)
		default:
			logger.Error("settle bet error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while settling bet", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, settlement)
	logger.Info("bet settled", slog.Bool("won", settlement.Won))
}

func (s *Server) GetBetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get bet stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	stats, err := s.betsService.Stats(ctx, uid)
	if err != nil {
		logger.Error("get bet stats error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting stats", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) GetSafeguards(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get safeguards error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	snap, err := s.betsService.Safeguards(ctx, uid)
	if err != nil {
		logger.Error("get safeguards error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting safeguards", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, snap)
}

func (s *Server) SetLimits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("set limits error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SetLimitsRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("set limits error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.DailyWagerCap.IsNegative() || req.DailyLossCap.IsNegative() {
		logger.Error("set limits error: negative cap")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "caps must not be negative", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	snap, err := s.betsService.SetLimits(ctx, uid, safeguard.Limits{
		DailyWagerCap: req.DailyWagerCap,
		DailyLossCap:  req.DailyLossCap,
	})
	if err != nil {
		logger.Error("set limits error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while setting limits", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, snap)
	logger.Info("safeguard limits updated")
}

func (s *Server) StartCoolingOff(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("cooling off error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CoolingOffRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("cooling off error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Hours < 1 {
		logger.Error("cooling off error: invalid duration")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "hours must be positive", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	snap, err := s.betsService.StartCoolingOff(ctx, uid, req.Hours)
	if err != nil {
		logger.Error("cooling off error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while starting cooling off", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, snap)
	logger.Info("cooling off started", slog.Int("hours", req.Hours))
}
