package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStateNext(t *testing.T) {
	cases := map[GameState]GameState{
		StateUnset:     StateStarted,
		StateStarted:   StateSubmitted,
		StateSubmitted: StateProcessed,
		StateProcessed: StateFinished,
		StateFinished:  StateStarted,
	}
	for from, want := range cases {
		assert.Equal(t, want, from.Next(), "next of %s", from)
	}
}

func TestGameStateTransition(t *testing.T) {
	next, err := StateStarted.Transition(StateSubmitted)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, next)

	next, err = StateFinished.Transition(StateStarted)
	require.NoError(t, err)
	assert.Equal(t, StateStarted, next)

	next, err = StateStarted.Transition(StateFinished)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateStarted, next)

	_, err = StateSubmitted.Transition(StateSubmitted)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = GameState(42).Transition(StateStarted)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestParseGameState(t *testing.T) {
	for _, state := range []GameState{StateUnset, StateStarted, StateSubmitted, StateProcessed, StateFinished} {
		parsed, err := ParseGameState(state.String())
		require.NoError(t, err)
		assert.Equal(t, state, parsed)
	}

	_, err := ParseGameState("started")
	assert.Error(t, err)
	assert.Equal(t, "GameState(9)", GameState(9).String())
}

func TestSessionSanitize(t *testing.T) {
	t.Run("Valid Session Untouched", func(t *testing.T) {
		s := &Session{
			Authenticated: true, Username: "u1", UserID: 1,
			GameState: StateSubmitted, MapOrder: []uint{3, 1, 2}, MapIndex: 3,
			CurrentMap: &MapSnapshot{ID: 2}, TotalScore: 150, GamesPlayed: 3,
		}
		before := *s
		assert.False(t, s.Sanitize())
		assert.Equal(t, before, *s)
	})

	t.Run("Unknown State Drops Game", func(t *testing.T) {
		s := &Session{GameState: 17, MapOrder: []uint{1, 2}, MapIndex: 1, CurrentMap: &MapSnapshot{ID: 1}, TotalScore: 80}
		assert.True(t, s.Sanitize())
		assert.Equal(t, StateUnset, s.GameState)
		assert.Nil(t, s.MapOrder)
		assert.Nil(t, s.CurrentMap)
		assert.Equal(t, 80, s.TotalScore)
	})

	t.Run("Index Past Order", func(t *testing.T) {
		s := &Session{GameState: StateStarted, MapOrder: []uint{1, 2}, MapIndex: 3}
		assert.True(t, s.Sanitize())
		assert.Equal(t, 0, s.MapIndex)
		assert.Equal(t, StateUnset, s.GameState)
	})

	t.Run("Negative Counters", func(t *testing.T) {
		s := &Session{TotalScore: -5, GamesPlayed: 2, PreviousGamesPlayed: -1}
		assert.True(t, s.Sanitize())
		assert.Zero(t, s.TotalScore)
		assert.Zero(t, s.GamesPlayed)
		assert.Zero(t, s.PreviousGamesPlayed)
	})

	t.Run("Identity Without Login", func(t *testing.T) {
		s := &Session{Username: "ghost", UserID: 9}
		assert.True(t, s.Sanitize())
		assert.Empty(t, s.Username)
		assert.Zero(t, s.UserID)
	})
}

func TestSessionView(t *testing.T) {
	s := &Session{GameState: StateFinished, TotalScore: 120, GamesPlayed: 2, LastScore: 20, PreviousTotalScore: 7, PreviousGamesPlayed: 1}
	assert.Equal(t, GameView{
		State: "FINISHED", TotalScore: 120, GamesPlayed: 2, LastScore: 20,
		PreviousTotalScore: 7, PreviousGamesPlayed: 1,
	}, s.View())
}
