package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/internal/pricing"
	"github.com/doomlife/pulse/internal/service"
	"github.com/doomlife/pulse/pkg/httputil"
)

type CreatePostRequest struct {
	Kind string   `json:"kind"`
	Body string   `json:"body"`
	Tags []string `json:"tags"`
}

func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create post error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreatePostRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create post error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	receipt, err := s.postsService.CreatePost(ctx, uid, &service.CreatePostRequest{
		Kind: req.Kind,
		Body: req.Body,
		Tags: req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create post error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create post: user doesn't exists", nil)
		case errors.Is(err, errorvalues.ErrUnknownKind) || strings.HasPrefix(err.Error(), "validation error"):
			logger.Error("create post error: invalid request", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid post", err)
		default:
			logger.Error("create post error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating post", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, receipt)
	logger.Info("post created", slog.String("kind", req.Kind))
}

func (s *Server) QuoteLifePost(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("quote post error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	cost, err := s.postsService.QuoteLifePost(ctx, uid)
	if err != nil {
		logger.Error("quote post error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while quoting post", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"cost": cost,
	})
}

func (s *Server) GetPricingTiers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"tiers": pricing.Tiers(),
	})
}

func (s *Server) GetTrending(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"tags": s.board.Top(limit),
	})
}
