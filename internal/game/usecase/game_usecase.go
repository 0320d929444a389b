package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"ninernav/domain"
	"ninernav/internal/service/logger"
	"ninernav/internal/service/metrics"
	"ninernav/internal/service/middleware"
	"ninernav/internal/service/scoring"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type GameUsecase interface {
	StartGame(ctx context.Context, sessionID string) (*domain.Session, error)
	NextMap(ctx context.Context, sessionID string) (*domain.Map, error)
	SubmitGuess(ctx context.Context, sessionID string, lat, lon float64) (*domain.GuessResponse, error)
	AdvanceAfterSubmission(ctx context.Context, sessionID string) (*domain.Session, error)
	ResetRun(ctx context.Context, sessionID string) (*domain.Session, error)
	RequireState(ctx context.Context, sessionID string, state domain.GameState) (*domain.Session, error)
	CurrentGame(ctx context.Context, sessionID string) (*domain.Session, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	UserScores(ctx context.Context, sessionID, mapName string) ([]domain.Score, error)
}

type gameUsecase struct {
	gameRepository domain.GameRepository
	sessions       domain.SessionService
	catalog        *MapCatalog
	metrics        *metrics.Metrics
}

func NewGameUsecase(gameRepository domain.GameRepository, sessions domain.SessionService, catalog *MapCatalog, m *metrics.Metrics) GameUsecase {
	return &gameUsecase{
		gameRepository: gameRepository,
		sessions:       sessions,
		catalog:        catalog,
		metrics:        m,
	}
}

func invalidState(sess *domain.Session, required domain.GameState) error {
	return fmt.Errorf("%w: in %s, requires %s", domain.ErrInvalidState, sess.GameState, required)
}

// pruneOrder drops ids that have left the catalog and keeps the position in the run.
func (uc *gameUsecase) pruneOrder(sess *domain.Session) {
	kept := make([]uint, 0, len(sess.MapOrder))
	index := sess.MapIndex
	for i, id := range sess.MapOrder {
		if uc.catalog.Contains(id) {
			kept = append(kept, id)
		} else if i < sess.MapIndex {
			index--
		}
	}
	sess.MapOrder = kept
	sess.MapIndex = index
}

// ensureOrder regenerates the shuffled order when there is none, when it has been used
// up, or when it no longer covers the catalog.
func (uc *gameUsecase) ensureOrder(sess *domain.Session) {
	if len(sess.MapOrder) > uc.catalog.Count() {
		uc.pruneOrder(sess)
	}
	if len(sess.MapOrder) == 0 || sess.MapIndex >= len(sess.MapOrder) || len(sess.MapOrder) != uc.catalog.Count() {
		sess.MapOrder = uc.catalog.Shuffle()
		sess.MapIndex = 0
	}
}

func (uc *gameUsecase) StartGame(ctx context.Context, sessionID string) (*domain.Session, error) {
	if uc.catalog.Count() == 0 {
		return nil, domain.ErrNoMaps
	}
	return uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		sess.GameState = domain.StateStarted
		sess.CurrentMap = nil
		sess.LastGuess = nil
		uc.ensureOrder(sess)
		return nil
	})
}

func (uc *gameUsecase) NextMap(ctx context.Context, sessionID string) (*domain.Map, error) {
	requestID := middleware.GetRequestID(ctx)
	var chosen *domain.Map
	_, err := uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.GameState != domain.StateStarted {
			return invalidState(sess, domain.StateStarted)
		}
		uc.ensureOrder(sess)

		m, err := uc.gameRepository.GetMap(ctx, sess.MapOrder[sess.MapIndex])
		for errors.Is(err, domain.ErrNotFound) {
			// the map was deleted after the catalog was loaded
			missing := sess.MapOrder[sess.MapIndex]
			logger.GameLogger.Warn("Map missing from store", zap.String("request_id", requestID), zap.Uint("map_id", missing))
			uc.catalog.Remove(missing)
			if uc.catalog.Count() == 0 {
				return domain.ErrNoMaps
			}
			uc.pruneOrder(sess)
			uc.ensureOrder(sess)
			m, err = uc.gameRepository.GetMap(ctx, sess.MapOrder[sess.MapIndex])
		}
		if err != nil {
			return err
		}

		sess.MapIndex++
		sess.CurrentMap = &domain.MapSnapshot{
			ID:        m.ID,
			Name:      m.Name,
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
		}
		chosen = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.GameLogger.Info("Map served", zap.String("request_id", requestID), zap.Uint("map_id", chosen.ID))
	return chosen, nil
}

func (uc *gameUsecase) SubmitGuess(ctx context.Context, sessionID string, lat, lon float64) (*domain.GuessResponse, error) {
	requestID := middleware.GetRequestID(ctx)
	if !validCoordinate(lat, lon) {
		return nil, domain.ErrBadCoordinates
	}

	var resp domain.GuessResponse
	_, err := uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.GameState != domain.StateStarted || sess.CurrentMap == nil {
			return invalidState(sess, domain.StateStarted)
		}
		next, err := sess.GameState.Transition(domain.StateSubmitted)
		if err != nil {
			return err
		}

		target := *sess.CurrentMap
		score := scoring.Score(lat, lon, target.Latitude, target.Longitude)

		recorded := false
		if sess.Authenticated && sess.UserID != 0 {
			if _, err := uc.gameRepository.RegisterScore(ctx, sess.UserID, target.ID, score); err != nil {
				return err
			}
			recorded = true
		}

		sess.LastGuess = &domain.Coordinate{Latitude: lat, Longitude: lon}
		sess.LastScore = score
		sess.GamesPlayed++
		sess.TotalScore += score
		sess.GameState = next

		resp = domain.GuessResponse{
			Score:       score,
			TotalScore:  sess.TotalScore,
			GamesPlayed: sess.GamesPlayed,
			Guess:       *sess.LastGuess,
			Answer:      target,
			Recorded:    recorded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.Guesses.WithLabelValues(strconv.FormatBool(resp.Recorded)).Inc()
	uc.metrics.RoundScore.Observe(float64(resp.Score))
	logger.GameLogger.Info("Guess scored",
		zap.String("request_id", requestID),
		zap.Uint("map_id", resp.Answer.ID),
		zap.Int("score", resp.Score),
		zap.Bool("recorded", resp.Recorded),
	)
	return &resp, nil
}

// validCoordinate rejects NaN and infinities as well as out-of-range degrees.
func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// AdvanceAfterSubmission moves SUBMITTED to PROCESSED and PROCESSED to FINISHED.
func (uc *gameUsecase) AdvanceAfterSubmission(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.GameState != domain.StateSubmitted && sess.GameState != domain.StateProcessed {
			return invalidState(sess, domain.StateSubmitted)
		}
		next, err := sess.GameState.Transition(sess.GameState.Next())
		if err != nil {
			return err
		}
		sess.GameState = next
		return nil
	})
}

// ResetRun archives the finished run's counters and starts a new run.
func (uc *gameUsecase) ResetRun(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, sessionID, func(sess *domain.Session) error {
		if sess.GameState != domain.StateFinished {
			return invalidState(sess, domain.StateFinished)
		}
		next, err := sess.GameState.Transition(domain.StateStarted)
		if err != nil {
			return err
		}

		sess.PreviousTotalScore = sess.TotalScore
		sess.PreviousGamesPlayed = sess.GamesPlayed
		sess.TotalScore = 0
		sess.GamesPlayed = 0
		sess.LastScore = 0
		sess.CurrentMap = nil
		sess.LastGuess = nil
		sess.GameState = next
		uc.ensureOrder(sess)
		return nil
	})
}

func (uc *gameUsecase) RequireState(ctx context.Context, sessionID string, state domain.GameState) (*domain.Session, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.GameState != state {
		return nil, invalidState(sess, state)
	}
	return sess, nil
}

func (uc *gameUsecase) CurrentGame(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Get(ctx, sessionID)
}

func (uc *gameUsecase) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	return uc.gameRepository.TopScores(ctx, limit)
}

// UserScores lists the logged-in user's scores, optionally for one map by name.
func (uc *gameUsecase) UserScores(ctx context.Context, sessionID, mapName string) ([]domain.Score, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated || sess.UserID == 0 {
		return nil, domain.ErrNotAuthenticated
	}
	if mapName == "" {
		return uc.gameRepository.GetUserScores(ctx, sess.UserID)
	}

	m, err := uc.gameRepository.GetMapByName(ctx, mapName)
	if err != nil {
		return nil, err
	}
	return uc.gameRepository.GetUserScoresByMap(ctx, sess.UserID, m.ID)
}
