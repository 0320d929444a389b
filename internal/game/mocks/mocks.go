package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ninernav/domain"
)

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) ListMapIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) GetMap(ctx context.Context, id uint) (*domain.Map, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Map), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) GetMapByName(ctx context.Context, name string) (*domain.Map, error) {
	args := m.Called(ctx, name)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Map), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) RegisterScore(ctx context.Context, userID, mapID uint, score int) (*domain.Score, error) {
	args := m.Called(ctx, userID, mapID, score)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Score), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) GetUserScores(ctx context.Context, userID uint) ([]domain.Score, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Score), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) GetUserScoresByMap(ctx context.Context, userID, mapID uint) ([]domain.Score, error) {
	args := m.Called(ctx, userID, mapID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Score), args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock для GameUsecase
type MockGameUsecase struct {
	mock.Mock
}

func (m *MockGameUsecase) StartGame(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) NextMap(ctx context.Context, sessionID string) (*domain.Map, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Map), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) SubmitGuess(ctx context.Context, sessionID string, lat, lon float64) (*domain.GuessResponse, error) {
	args := m.Called(ctx, sessionID, lat, lon)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GuessResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) AdvanceAfterSubmission(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) ResetRun(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) RequireState(ctx context.Context, sessionID string, state domain.GameState) (*domain.Session, error) {
	args := m.Called(ctx, sessionID, state)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) CurrentGame(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) UserScores(ctx context.Context, sessionID, mapName string) ([]domain.Score, error) {
	args := m.Called(ctx, sessionID, mapName)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Score), args.Error(1)
	}
	return nil, args.Error(1)
}
