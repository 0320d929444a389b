package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ninernav/domain"
	"ninernav/internal/service/dberr"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/middleware"
)

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) domain.AuthRepository {
	return &authRepository{
		db: db,
	}
}

func (r *authRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateUser called", zap.String("request_id", requestID), zap.String("username", username))

	user := domain.User{
		Username: username,
		Email:    email,
		Password: passwordHash,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			logger.DBLogger.Warn("User already exists", zap.String("request_id", requestID), zap.String("username", username))
			return nil, domain.ErrConflict
		}
		logger.DBLogger.Error("Error creating user", zap.String("request_id", requestID), zap.String("username", username), zap.Error(err))
		return nil, err
	}

	logger.DBLogger.Info("Successfully create user", zap.String("request_id", requestID), zap.String("username", username), zap.Uint("user_id", user.ID))
	return &user, nil
}

func (r *authRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *authRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

func (r *authRepository) findUser(ctx context.Context, query string, value string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, query, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		logger.DBLogger.Error("Error getting user", zap.String("request_id", requestID), zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *authRepository) UpdateUserPassword(ctx context.Context, userID uint, passwordHash string) error {
	requestID := middleware.GetRequestID(ctx)
	result := r.db.WithContext(ctx).Model(&domain.User{ID: userID}).Update("password", passwordHash)
	if result.Error != nil {
		logger.DBLogger.Error("Failed to update password", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.DBLogger.Warn("User not found", zap.String("request_id", requestID), zap.Uint("user_id", userID))
		return domain.ErrNotFound
	}
	logger.DBLogger.Info("Successfully update password", zap.String("request_id", requestID), zap.Uint("user_id", userID))
	return nil
}
