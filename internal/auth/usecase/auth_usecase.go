package usecase

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/metrics"
	"ninernav/internal/service/middleware"
	"ninernav/internal/service/password"
	"ninernav/internal/service/validation"
)

type AuthUsecase interface {
	SignupUser(ctx context.Context, username, email, password string) (*domain.User, error)
	LoginUser(ctx context.Context, sessionID, username, password string) (*domain.User, string, error)
	LogoutUser(ctx context.Context, sessionID string) error
	IsAuthenticated(ctx context.Context, sessionID string) (bool, string, error)
}

type authUsecase struct {
	authRepository domain.AuthRepository
	sessions       domain.SessionService
	hasher         password.Hasher
	metrics        *metrics.Metrics
}

func NewAuthUsecase(authRepository domain.AuthRepository, sessions domain.SessionService, hasher password.Hasher, m *metrics.Metrics) AuthUsecase {
	return &authUsecase{
		authRepository: authRepository,
		sessions:       sessions,
		hasher:         hasher,
		metrics:        m,
	}
}

// UsernameTaken and EmailTaken let the usecase act as the validation registry.
func (uc *authUsecase) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return exists(uc.authRepository.GetUserByUsername(ctx, username))
}

func (uc *authUsecase) EmailTaken(ctx context.Context, email string) (bool, error) {
	return exists(uc.authRepository.GetUserByEmail(ctx, email))
}

func exists(_ *domain.User, err error) (bool, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (uc *authUsecase) SignupUser(ctx context.Context, username, email, pass string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)

	reason, err := validation.SignupFailure(ctx, uc, username, email, pass)
	if err != nil {
		logger.AccessLogger.Error("Failed to check signup", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	if reason != domain.ReasonNone {
		logger.AccessLogger.Warn("Signup rejected", zap.String("request_id", requestID), zap.String("reason", reason.Code()))
		uc.metrics.Signups.WithLabelValues(reason.Code()).Inc()
		return nil, domain.NewValidationError(reason)
	}

	hash, err := uc.hasher.Hash(pass)
	if err != nil {
		logger.AccessLogger.Error("Failed to hash password", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	user, err := uc.authRepository.CreateUser(ctx, username, email, hash)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent signup; ask the store which field collided.
		reason, lookupErr := validation.DuplicateFailure(ctx, uc, username, email)
		if lookupErr != nil || reason == domain.ReasonNone {
			logger.AccessLogger.Error("Conflict without a matching user",
				zap.String("request_id", requestID), zap.Error(lookupErr))
			uc.metrics.Signups.WithLabelValues(domain.ReasonUnknown.Code()).Inc()
			return nil, domain.ErrConflict
		}
		uc.metrics.Signups.WithLabelValues(reason.Code()).Inc()
		return nil, domain.NewValidationError(reason)
	}
	if err != nil {
		return nil, err
	}

	logger.AccessLogger.Info("User signed up", zap.String("request_id", requestID), zap.Uint("user_id", user.ID))
	uc.metrics.Signups.WithLabelValues("success").Inc()
	return user, nil
}

// LoginUser reports every failure to authenticate as ErrInvalidCredentials so that
// callers cannot tell an unknown username from a wrong password. On success the
// session moves to a new id, which is returned; the old id no longer refers to it.
func (uc *authUsecase) LoginUser(ctx context.Context, sessionID, username, pass string) (*domain.User, string, error) {
	requestID := middleware.GetRequestID(ctx)

	var user *domain.User
	_, err := uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.Authenticated {
			return domain.ErrAlreadyAuthenticated
		}

		var err error
		user, err = uc.authenticate(ctx, username, pass)
		if err != nil {
			return err
		}

		sess.Authenticated = true
		sess.Username = user.Username
		sess.UserID = user.ID
		return nil
	})
	if err != nil {
		uc.metrics.Logins.WithLabelValues(loginOutcome(err)).Inc()
		return nil, "", err
	}

	newSessionID, err := uc.sessions.Rotate(ctx, sessionID)
	if err != nil {
		logger.AccessLogger.Error("Failed to rotate session", zap.String("request_id", requestID), zap.Error(err))
		uc.metrics.Logins.WithLabelValues("error").Inc()
		return nil, "", err
	}

	logger.AccessLogger.Info("User logged in", zap.String("request_id", requestID), zap.Uint("user_id", user.ID))
	uc.metrics.Logins.WithLabelValues("success").Inc()
	return user, newSessionID, nil
}

func (uc *authUsecase) authenticate(ctx context.Context, username, pass string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	if username == "" || pass == "" || utf8.RuneCountInString(username) > validation.MaxUsernameLen {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.authRepository.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := uc.hasher.Verify(pass, user.Password)
	if err != nil {
		logger.AccessLogger.Error("Stored password hash is unreadable",
			zap.String("request_id", requestID), zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if uc.hasher.NeedsRehash(user.Password) {
		hash, err := uc.hasher.Hash(pass)
		if err != nil {
			return nil, err
		}
		if err := uc.authRepository.UpdateUserPassword(ctx, user.ID, hash); err != nil {
			return nil, err
		}
		user.Password = hash
		uc.metrics.Rehashes.Inc()
		logger.AccessLogger.Info("Upgraded password hash", zap.String("request_id", requestID), zap.Uint("user_id", user.ID))
	}
	return user, nil
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		return "already_authenticated"
	default:
		return "error"
	}
}

func (uc *authUsecase) LogoutUser(ctx context.Context, sessionID string) error {
	_, err := uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		sess.Authenticated = false
		sess.Username = ""
		sess.UserID = 0
		return nil
	})
	return err
}

func (uc *authUsecase) IsAuthenticated(ctx context.Context, sessionID string) (bool, string, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, "", err
	}
	return sess.Authenticated, sess.Username, nil
}
