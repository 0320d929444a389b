package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/auth/usecase"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/middleware"
)

type AuthHandler struct {
	usecase    usecase.AuthUsecase
	jwtToken   middleware.JwtTokenService
	sessionTTL time.Duration
	sanitizer  *bluemonday.Policy
}

func NewAuthHandler(usecase usecase.AuthUsecase, jwtToken middleware.JwtTokenService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		usecase:    usecase,
		jwtToken:   jwtToken,
		sessionTTL: sessionTTL,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (h *AuthHandler) SignupUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received SignupUser request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, errBadRequest, requestID)
		return
	}
	user, err := h.usecase.SignupUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, domain.UserResponse{ID: user.ID, Username: h.sanitizer.Sanitize(user.Username)}, requestID)
	logger.AccessLogger.Info("Completed SignupUser request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusCreated),
	)
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received LoginUser request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	var creds domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		logger.AccessLogger.Error("Failed to decode request body",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.handleError(w, domain.ErrInvalidCredentials, requestID)
		return
	}
	user, sessionID, err := h.usecase.LoginUser(ctx, middleware.GetSessionID(r.Context()), creds.Username, creds.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	// the pre-login session id is dead, hand out the new one
	if err := middleware.SetSessionCookie(w, h.jwtToken, sessionID, h.sessionTTL); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.SessionResponse{Authenticated: true, Username: h.sanitizer.Sanitize(user.Username)}, requestID)
	logger.AccessLogger.Info("Completed LoginUser request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received LogoutUser request", zap.String("request_id", requestID))

	if err := h.usecase.LogoutUser(ctx, middleware.GetSessionID(r.Context())); err != nil {
		h.handleError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	ok, username, err := h.usecase.IsAuthenticated(ctx, middleware.GetSessionID(r.Context()))
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, domain.SessionResponse{Authenticated: ok, Username: h.sanitizer.Sanitize(username)}, requestID)
}

var errBadRequest = errors.New("invalid request body")

func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.AccessLogger.Error("Failed to encode response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (h *AuthHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	errorResponse := map[string]string{"error": "internal error"}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		// the reason is shown to the user, including which field collided
		status = http.StatusBadRequest
		if errors.Is(err, domain.ErrConflict) {
			status = http.StatusConflict
		}
		errorResponse = map[string]string{"error": ve.Error(), "reason": ve.Reason.Code()}
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		errorResponse["error"] = err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		errorResponse["error"] = domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrAlreadyAuthenticated), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		errorResponse["error"] = err.Error()
	}

	h.writeJSON(w, status, errorResponse, requestID)
}
