package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ninernav/internal/service/logger"
)

const SessionCookieName = "ninernav_session"

// SessionMiddleware resolves the session id from the signed session cookie. Requests
// without a valid cookie get a fresh id and a new cookie.
func SessionMiddleware(tokens JwtTokenService, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				claims, err := tokens.Validate(cookie.Value)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.SessionID)))
					return
				}
				logger.AccessLogger.Info("Replacing invalid session cookie",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
			}

			sessionID := uuid.New().String()
			if err := SetSessionCookie(w, tokens, sessionID, ttl); err != nil {
				logger.AccessLogger.Error("Failed to create session cookie",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				http.Error(w, "failed to create session", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// SetSessionCookie signs sessionID and sends it as the session cookie.
func SetSessionCookie(w http.ResponseWriter, tokens JwtTokenService, sessionID string, ttl time.Duration) error {
	expires := time.Now().Add(ttl)
	token, err := tokens.Create(sessionID, expires.Unix())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
