package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/game/usecase"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/middleware"
)

type GameHandler struct {
	usecase   usecase.GameUsecase
	sanitizer *bluemonday.Policy
}

func NewGameHandler(usecase usecase.GameUsecase) *GameHandler {
	return &GameHandler{
		usecase:   usecase,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

var (
	errBadRequest = errors.New("invalid request body")
	errBadLimit   = errors.New("limit must be a number")
)

// pages the client should go back to when a step is requested out of order
var redirects = map[domain.GameState]string{
	domain.StateUnset:     "/play",
	domain.StateStarted:   "/play/map",
	domain.StateSubmitted: "/play/result",
	domain.StateProcessed: "/play/result",
	domain.StateFinished:  "/play/summary",
}

func logReceived(name string, r *http.Request, requestID string) {
	logger.AccessLogger.Info("Received "+name+" request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)
}

func logCompleted(name string, start time.Time, status int, requestID string) {
	logger.AccessLogger.Info("Completed "+name+" request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", status),
	)
}

func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("StartGame", r, requestID)

	sess, err := h.usecase.StartGame(ctx, middleware.GetSessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View(), requestID)
	logCompleted("StartGame", start, http.StatusOK, requestID)
}

// NextMap serves the next map of the run. Coordinates stay server side.
func (h *GameHandler) NextMap(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("NextMap", r, requestID)

	m, err := h.usecase.NextMap(ctx, middleware.GetSessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.MapResponse{ID: m.ID, Name: m.Name, ImagePath: m.ImagePath}, requestID)
	logCompleted("NextMap", start, http.StatusOK, requestID)
}

func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("SubmitGuess", r, requestID)

	var req domain.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, r, errBadRequest, requestID)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		h.handleError(w, r, domain.ErrBadCoordinates, requestID)
		return
	}

	resp, err := h.usecase.SubmitGuess(ctx, middleware.GetSessionID(r.Context()), *req.Latitude, *req.Longitude)
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, resp, requestID)
	logCompleted("SubmitGuess", start, http.StatusOK, requestID)
}

func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("Advance", r, requestID)

	sess, err := h.usecase.AdvanceAfterSubmission(ctx, middleware.GetSessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View(), requestID)
	logCompleted("Advance", start, http.StatusOK, requestID)
}

func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("Reset", r, requestID)

	sess, err := h.usecase.ResetRun(ctx, middleware.GetSessionID(r.Context()))
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, sess.View(), requestID)
	logCompleted("Reset", start, http.StatusOK, requestID)
}

// GetState returns the game view. With ?require=STATE it answers 409 unless the
// session is in that state.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	sessionID := middleware.GetSessionID(r.Context())
	required := r.URL.Query().Get("require")
	if required == "" {
		sess, err := h.usecase.CurrentGame(ctx, sessionID)
		if err != nil {
			h.handleError(w, r, err, requestID)
			return
		}
		h.writeJSON(w, http.StatusOK, sess.View(), requestID)
		return
	}

	state, err := domain.ParseGameState(required)
	if err != nil {
		h.handleError(w, r, errBadRequest, requestID)
		return
	}
	sess, err := h.usecase.RequireState(ctx, sessionID, state)
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, sess.View(), requestID)
}

func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("Leaderboard", r, requestID)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.handleError(w, r, errBadLimit, requestID)
			return
		}
		limit = n
	}

	entries, err := h.usecase.Leaderboard(ctx, limit)
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	// names are user supplied, escape them for display
	for i := range entries {
		entries[i].Username = h.sanitizer.Sanitize(entries[i].Username)
		entries[i].MapName = h.sanitizer.Sanitize(entries[i].MapName)
	}

	h.writeJSON(w, http.StatusOK, entries, requestID)
	logCompleted("Leaderboard", start, http.StatusOK, requestID)
}

func (h *GameHandler) UserScores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()
	logReceived("UserScores", r, requestID)

	mapName := mux.Vars(r)["map"]
	scores, err := h.usecase.UserScores(ctx, middleware.GetSessionID(r.Context()), mapName)
	if err != nil {
		h.handleError(w, r, err, requestID)
		return
	}
	if scores == nil {
		scores = []domain.Score{}
	}

	h.writeJSON(w, http.StatusOK, scores, requestID)
	logCompleted("UserScores", start, http.StatusOK, requestID)
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.AccessLogger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *GameHandler) handleError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	errorResponse := map[string]string{"error": "internal error"}

	switch {
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
		errorResponse["error"] = domain.ErrInvalidState.Error()
		// best effort, the client falls back to the start page
		errorResponse["redirect"] = redirects[domain.StateUnset]
		if sess, getErr := h.usecase.CurrentGame(r.Context(), middleware.GetSessionID(r.Context())); getErr == nil {
			errorResponse["state"] = sess.GameState.String()
			errorResponse["redirect"] = redirects[sess.GameState]
		}
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		errorResponse["error"] = domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		errorResponse["error"] = domain.ErrNotAuthenticated.Error()
	case errors.Is(err, domain.ErrBadCoordinates), errors.Is(err, errBadRequest), errors.Is(err, errBadLimit):
		status = http.StatusBadRequest
		errorResponse["error"] = err.Error()
	case errors.Is(err, domain.ErrNoMaps):
		status = http.StatusServiceUnavailable
		errorResponse["error"] = domain.ErrNoMaps.Error()
	}

	h.writeJSON(w, status, errorResponse, requestID)
}
