package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ninernav/domain"
)

// MockAuthRepository - мок репозитория аутентификации
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepository) UpdateUserPassword(ctx context.Context, userID uint, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockAuthUsecase - мок usecase для аутентификации
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) SignupUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthUsecase) LoginUser(ctx context.Context, sessionID, username, password string) (*domain.User, string, error) {
	args := m.Called(ctx, sessionID, username, password)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockAuthUsecase) LogoutUser(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthUsecase) IsAuthenticated(ctx context.Context, sessionID string) (bool, string, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.String(1), args.Error(2)
}
