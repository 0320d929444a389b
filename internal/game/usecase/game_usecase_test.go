package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ninernav/domain"
	"ninernav/internal/game/mocks"
	"ninernav/internal/service/metrics"
	"ninernav/internal/service/session"
)

const numMaps = 5

func testMap(id uint) *domain.Map {
	return &domain.Map{
		ID:        id,
		Name:      fmt.Sprintf("Map %d", id),
		Latitude:  35.30 + float64(id)*0.001,
		Longitude: -80.73 - float64(id)*0.001,
		ImagePath: fmt.Sprintf("img/%d.jpg", id),
	}
}

type fixture struct {
	ctx      context.Context
	repo     *mocks.MockGameRepository
	sessions domain.SessionService
	catalog  *MapCatalog
	uc       GameUsecase
}

// newFixture lists maps 1..numMaps; ids in missing are listed but gone from the store.
func newFixture(t *testing.T, missing ...uint) *fixture {
	f := &fixture{
		ctx:      context.Background(),
		repo:     new(mocks.MockGameRepository),
		sessions: session.NewSessionService(session.NewMemorySessionStore()),
	}
	ids := make([]uint, 0, numMaps)
	for id := uint(1); id <= numMaps; id++ {
		ids = append(ids, id)
		if slices.Contains(missing, id) {
			f.repo.On("GetMap", mock.Anything, id).Return(nil, domain.ErrNotFound).Maybe()
			continue
		}
		f.repo.On("GetMap", mock.Anything, id).Return(testMap(id), nil).Maybe()
	}
	f.repo.On("ListMapIDs", mock.Anything).Return(ids, nil)

	f.catalog = NewMapCatalog(f.repo, 42)
	require.NoError(t, f.catalog.Init(f.ctx))
	f.uc = NewGameUsecase(f.repo, f.sessions, f.catalog, metrics.New())
	return f
}

func (f *fixture) login(t *testing.T, sessionID string, userID uint) {
	_, err := f.sessions.Update(f.ctx, sessionID, func(sess *domain.Session) error {
		sess.Authenticated = true
		sess.Username = "user1"
		sess.UserID = userID
		return nil
	})
	require.NoError(t, err)
}

func (f *fixture) session(t *testing.T, sessionID string) *domain.Session {
	sess, err := f.sessions.Get(f.ctx, sessionID)
	require.NoError(t, err)
	return sess
}

func TestMapCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Catalog", func(t *testing.T) {
		repo := new(mocks.MockGameRepository)
		repo.On("ListMapIDs", mock.Anything).Return([]uint{}, nil)
		assert.ErrorIs(t, NewMapCatalog(repo, 1).Init(ctx), domain.ErrNoMaps)
	})

	t.Run("Store Error", func(t *testing.T) {
		repo := new(mocks.MockGameRepository)
		repo.On("ListMapIDs", mock.Anything).Return(nil, errors.New("database error"))
		assert.Error(t, NewMapCatalog(repo, 1).Init(ctx))
	})

	t.Run("Shuffle Is A Permutation", func(t *testing.T) {
		repo := new(mocks.MockGameRepository)
		repo.On("ListMapIDs", mock.Anything).Return([]uint{4, 8, 15, 16, 23, 42}, nil)
		c := NewMapCatalog(repo, 7)
		require.NoError(t, c.Init(ctx))

		order := c.Shuffle()
		sorted := append([]uint(nil), order...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		assert.Equal(t, []uint{4, 8, 15, 16, 23, 42}, sorted)
		assert.Equal(t, 6, c.Count())
	})

	t.Run("Remove Drops Id From Later Shuffles", func(t *testing.T) {
		repo := new(mocks.MockGameRepository)
		repo.On("ListMapIDs", mock.Anything).Return([]uint{1, 2, 3}, nil)
		c := NewMapCatalog(repo, 7)
		require.NoError(t, c.Init(ctx))

		c.Remove(2)
		c.Remove(9)
		assert.Equal(t, 2, c.Count())
		assert.False(t, c.Contains(2))
		assert.True(t, c.Contains(3))
		assert.NotContains(t, c.Shuffle(), uint(2))
	})

	t.Run("Uninitialized Catalog Refuses To Start", func(t *testing.T) {
		repo := new(mocks.MockGameRepository)
		uc := NewGameUsecase(repo, session.NewSessionService(session.NewMemorySessionStore()), NewMapCatalog(repo, 1), metrics.New())
		_, err := uc.StartGame(ctx, "s")
		assert.ErrorIs(t, err, domain.ErrNoMaps)
	})
}

func TestStartGame(t *testing.T) {
	f := newFixture(t)

	sess, err := f.uc.StartGame(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStarted, sess.GameState)
	assert.Len(t, sess.MapOrder, numMaps)
	assert.Equal(t, 0, sess.MapIndex)
	assert.Equal(t, 0, sess.TotalScore)
	assert.Equal(t, 0, sess.GamesPlayed)

	t.Run("Restart Keeps Unfinished Order", func(t *testing.T) {
		_, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)
		before := f.session(t, "s")

		after, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, before.MapOrder, after.MapOrder)
		assert.Equal(t, 1, after.MapIndex)
	})
}

func TestNextMapSequencing(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartGame(f.ctx, "s")
	require.NoError(t, err)

	seen := make(map[uint]bool)
	for i := 0; i < numMaps; i++ {
		m, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)
		assert.False(t, seen[m.ID], "map %d repeated within one cycle", m.ID)
		seen[m.ID] = true

		sess := f.session(t, "s")
		assert.Equal(t, i+1, sess.MapIndex)
		require.NotNil(t, sess.CurrentMap)
		assert.Equal(t, m.ID, sess.CurrentMap.ID)
		assert.Equal(t, m.Latitude, sess.CurrentMap.Latitude)
	}
	assert.Len(t, seen, numMaps)
	assert.Equal(t, numMaps, f.session(t, "s").MapIndex)

	m, err := f.uc.NextMap(f.ctx, "s")
	require.NoError(t, err)
	sess := f.session(t, "s")
	assert.Equal(t, 1, sess.MapIndex)
	assert.Len(t, sess.MapOrder, numMaps)
	assert.Equal(t, sess.MapOrder[0], m.ID)
}

func TestNextMapRequiresStartedGame(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.NextMap(f.ctx, "s")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	sess := f.session(t, "s")
	assert.Equal(t, domain.StateUnset, sess.GameState)
	assert.Nil(t, sess.MapOrder)
	assert.Nil(t, sess.CurrentMap)
}

func setOrder(t *testing.T, f *fixture, sessionID string, order []uint, index int) {
	_, err := f.sessions.Update(f.ctx, sessionID, func(sess *domain.Session) error {
		sess.GameState = domain.StateStarted
		sess.MapOrder = order
		sess.MapIndex = index
		return nil
	})
	require.NoError(t, err)
}

func TestNextMapRecoversFromRemovedMap(t *testing.T) {
	t.Run("Skips Missing Map Without Repeats", func(t *testing.T) {
		f := newFixture(t, 1)
		setOrder(t, f, "s", []uint{2, 1, 3, 4, 5}, 0)

		var served []uint
		for i := 0; i < 4; i++ {
			m, err := f.uc.NextMap(f.ctx, "s")
			require.NoError(t, err)
			served = append(served, m.ID)
		}
		assert.Equal(t, []uint{2, 3, 4, 5}, served)
		assert.Equal(t, numMaps-1, f.catalog.Count())
		assert.False(t, f.catalog.Contains(1))

		// the next cycle is built from the shrunken catalog
		served = served[:0]
		for i := 0; i < numMaps-1; i++ {
			m, err := f.uc.NextMap(f.ctx, "s")
			require.NoError(t, err)
			served = append(served, m.ID)
		}
		assert.NotContains(t, served, uint(1))
		sort.Slice(served, func(i, j int) bool { return served[i] < served[j] })
		assert.Equal(t, []uint{2, 3, 4, 5}, served)
	})

	t.Run("Other Sessions Keep Their Place", func(t *testing.T) {
		f := newFixture(t, 1)
		setOrder(t, f, "a", []uint{1, 2, 3, 4, 5}, 0)
		setOrder(t, f, "b", []uint{5, 1, 2, 3, 4}, 2)

		m, err := f.uc.NextMap(f.ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, uint(2), m.ID)

		m, err = f.uc.NextMap(f.ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, uint(2), m.ID)
		sess := f.session(t, "b")
		assert.Equal(t, []uint{5, 2, 3, 4}, sess.MapOrder)
		assert.Equal(t, 2, sess.MapIndex)
	})

	t.Run("Every Map Missing", func(t *testing.T) {
		f := newFixture(t, 1, 2, 3, 4, 5)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)

		_, err = f.uc.NextMap(f.ctx, "s")
		assert.ErrorIs(t, err, domain.ErrNoMaps)
		assert.Equal(t, 0, f.catalog.Count())
	})
}

func TestSubmitGuess(t *testing.T) {
	t.Run("Exact Guess Is Recorded For Logged In User", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "s", 7)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		m, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)

		f.repo.On("RegisterScore", mock.Anything, uint(7), m.ID, 100).Return(&domain.Score{ID: 1, Score: 100}, nil).Once()

		resp, err := f.uc.SubmitGuess(f.ctx, "s", m.Latitude, m.Longitude)
		require.NoError(t, err)
		assert.Equal(t, 100, resp.Score)
		assert.True(t, resp.Recorded)
		assert.Equal(t, m.ID, resp.Answer.ID)

		sess := f.session(t, "s")
		assert.Equal(t, domain.StateSubmitted, sess.GameState)
		assert.Equal(t, 100, sess.TotalScore)
		assert.Equal(t, 1, sess.GamesPlayed)
		assert.Equal(t, 100, sess.LastScore)
		f.repo.AssertExpectations(t)
	})

	t.Run("Double Submit Is Rejected", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "s", 7)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		m, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)
		f.repo.On("RegisterScore", mock.Anything, uint(7), m.ID, mock.Anything).Return(&domain.Score{}, nil).Once()

		_, err = f.uc.SubmitGuess(f.ctx, "s", m.Latitude, m.Longitude)
		require.NoError(t, err)
		_, err = f.uc.SubmitGuess(f.ctx, "s", m.Latitude, m.Longitude)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		sess := f.session(t, "s")
		assert.Equal(t, 1, sess.GamesPlayed)
		assert.Equal(t, 100, sess.TotalScore)
		f.repo.AssertNumberOfCalls(t, "RegisterScore", 1)
	})

	t.Run("Anonymous Guess Is Scored But Not Recorded", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		m, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)

		// about 111 m north of the target
		resp, err := f.uc.SubmitGuess(f.ctx, "s", m.Latitude+0.001, m.Longitude)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Score)
		assert.False(t, resp.Recorded)
		assert.Equal(t, 1, f.session(t, "s").GamesPlayed)
		f.repo.AssertNotCalled(t, "RegisterScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Guess Before A Map Was Fetched", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)

		_, err = f.uc.SubmitGuess(f.ctx, "s", 35.3, -80.7)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		sess := f.session(t, "s")
		assert.Equal(t, domain.StateStarted, sess.GameState)
		assert.Equal(t, 0, sess.GamesPlayed)
	})

	t.Run("Out Of Range Coordinates", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "s", 7)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		_, err = f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)

		bad := [][2]float64{
			{91, 0},
			{0, -180.5},
			{math.NaN(), 0},
			{35.3, math.NaN()},
			{math.Inf(1), 0},
			{0, math.Inf(-1)},
		}
		for _, c := range bad {
			_, err := f.uc.SubmitGuess(f.ctx, "s", c[0], c[1])
			assert.ErrorIs(t, err, domain.ErrBadCoordinates, "guess %v", c)
		}

		sess := f.session(t, "s")
		assert.Equal(t, domain.StateStarted, sess.GameState)
		assert.Equal(t, 0, sess.GamesPlayed)
		f.repo.AssertNotCalled(t, "RegisterScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store Failure Leaves Session Untouched", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, "s", 7)
		_, err := f.uc.StartGame(f.ctx, "s")
		require.NoError(t, err)
		m, err := f.uc.NextMap(f.ctx, "s")
		require.NoError(t, err)
		f.repo.On("RegisterScore", mock.Anything, uint(7), m.ID, mock.Anything).Return(nil, errors.New("insert failed"))

		_, err = f.uc.SubmitGuess(f.ctx, "s", m.Latitude, m.Longitude)
		assert.Error(t, err)
		sess := f.session(t, "s")
		assert.Equal(t, domain.StateStarted, sess.GameState)
		assert.Equal(t, 0, sess.GamesPlayed)
	})
}

func TestAdvanceAndReset(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartGame(f.ctx, "s")
	require.NoError(t, err)

	_, err = f.uc.AdvanceAfterSubmission(f.ctx, "s")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.ResetRun(f.ctx, "s")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	m, err := f.uc.NextMap(f.ctx, "s")
	require.NoError(t, err)
	_, err = f.uc.SubmitGuess(f.ctx, "s", m.Latitude, m.Longitude)
	require.NoError(t, err)

	sess, err := f.uc.AdvanceAfterSubmission(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateProcessed, sess.GameState)

	_, err = f.uc.RequireState(f.ctx, "s", domain.StateProcessed)
	assert.NoError(t, err)
	_, err = f.uc.RequireState(f.ctx, "s", domain.StateStarted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	sess, err = f.uc.AdvanceAfterSubmission(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFinished, sess.GameState)

	_, err = f.uc.AdvanceAfterSubmission(f.ctx, "s")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	sess, err = f.uc.ResetRun(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStarted, sess.GameState)
	assert.Equal(t, 100, sess.PreviousTotalScore)
	assert.Equal(t, 1, sess.PreviousGamesPlayed)
	assert.Equal(t, 0, sess.TotalScore)
	assert.Equal(t, 0, sess.GamesPlayed)
	assert.Nil(t, sess.CurrentMap)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	entries := []domain.LeaderboardEntry{{Username: "user1", MapName: "Map 1", Score: 100}}

	f.repo.On("TopScores", mock.Anything, DefaultLeaderboardLimit).Return(entries, nil).Twice()
	f.repo.On("TopScores", mock.Anything, MaxLeaderboardLimit).Return(entries, nil).Once()
	f.repo.On("TopScores", mock.Anything, 3).Return(entries, nil).Once()

	for _, limit := range []int{0, -5, 1000, 3} {
		got, err := f.uc.Leaderboard(f.ctx, limit)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
	}
	f.repo.AssertExpectations(t)
}

func TestUserScores(t *testing.T) {
	f := newFixture(t)
	scores := []domain.Score{{ID: 1, UserID: 7, MapID: 2, Score: 90}}

	_, err := f.uc.UserScores(f.ctx, "s", "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	f.login(t, "s", 7)
	f.repo.On("GetUserScores", mock.Anything, uint(7)).Return(scores, nil)
	f.repo.On("GetMapByName", mock.Anything, "Map 2").Return(testMap(2), nil)
	f.repo.On("GetMapByName", mock.Anything, "Nowhere").Return(nil, domain.ErrNotFound)
	f.repo.On("GetUserScoresByMap", mock.Anything, uint(7), uint(2)).Return(scores, nil)

	got, err := f.uc.UserScores(f.ctx, "s", "")
	require.NoError(t, err)
	assert.Equal(t, scores, got)

	got, err = f.uc.UserScores(f.ctx, "s", "Map 2")
	require.NoError(t, err)
	assert.Equal(t, scores, got)

	_, err = f.uc.UserScores(f.ctx, "s", "Nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCurrentGame(t *testing.T) {
	f := newFixture(t)

	sess, err := f.uc.CurrentGame(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateUnset, sess.GameState)

	_, err = f.uc.StartGame(f.ctx, "s")
	require.NoError(t, err)
	sess, err = f.uc.CurrentGame(f.ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStarted, sess.GameState)
}
