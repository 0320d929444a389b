package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ninernav/domain"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/middleware"
)

type gameRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGameRepository(db *gorm.DB) domain.GameRepository {
	return &gameRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *gameRepository) ListMapIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&domain.Map{}).Order("id").Pluck("id", &ids).Error; err != nil {
		logger.DBLogger.Error("Failed to list maps", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (r *gameRepository) GetMap(ctx context.Context, id uint) (*domain.Map, error) {
	return r.findMap(ctx, "id = ?", id)
}

func (r *gameRepository) GetMapByName(ctx context.Context, name string) (*domain.Map, error) {
	return r.findMap(ctx, "name = ?", name)
}

func (r *gameRepository) findMap(ctx context.Context, query string, value interface{}) (*domain.Map, error) {
	var m domain.Map
	if err := r.db.WithContext(ctx).First(&m, query, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		logger.DBLogger.Error("Failed to get map", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *gameRepository) RegisterScore(ctx context.Context, userID, mapID uint, score int) (*domain.Score, error) {
	requestID := middleware.GetRequestID(ctx)
	record := domain.Score{
		UserID: userID,
		MapID:  mapID,
		Score:  score,
		Time:   r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&record).Error; err != nil {
		logger.DBLogger.Error("Failed to register score", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Uint("map_id", mapID), zap.Error(err))
		return nil, err
	}
	logger.DBLogger.Info("Successfully register score", zap.String("request_id", requestID), zap.Uint("user_id", userID), zap.Uint("map_id", mapID), zap.Int("score", score))
	return &record, nil
}

// TopScores returns the best scores across all users. Equal scores come back in
// whatever order the database yields them.
func (r *gameRepository) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries := make([]domain.LeaderboardEntry, 0, limit)
	if err := r.db.WithContext(ctx).
		Table("scores").
		Select("users.username, maps.name AS map_name, scores.score, scores.time").
		Joins("JOIN users ON users.id = scores.user_id").
		Joins("JOIN maps ON maps.id = scores.map_id").
		Order("scores.score DESC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		logger.DBLogger.Error("Failed to fetch leaderboard", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (r *gameRepository) GetUserScores(ctx context.Context, userID uint) ([]domain.Score, error) {
	var scores []domain.Score
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("time DESC").Find(&scores).Error; err != nil {
		logger.DBLogger.Error("Failed to fetch user scores", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		return nil, err
	}
	return scores, nil
}

func (r *gameRepository) GetUserScoresByMap(ctx context.Context, userID, mapID uint) ([]domain.Score, error) {
	var scores []domain.Score
	if err := r.db.WithContext(ctx).Where("user_id = ? AND map_id = ?", userID, mapID).Order("time DESC").Find(&scores).Error; err != nil {
		logger.DBLogger.Error("Failed to fetch user scores", zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		return nil, err
	}
	return scores, nil
}
