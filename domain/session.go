package domain

import (
	"context"
	"fmt"
)

// GameState is the position of a session in the round cycle. The zero value means no
// game has been started yet.
type GameState int

const (
	StateUnset GameState = iota
	StateStarted
	StateSubmitted
	StateProcessed
	StateFinished
)

var gameStateNames = map[GameState]string{
	StateUnset:     "UNSET",
	StateStarted:   "STARTED",
	StateSubmitted: "SUBMITTED",
	StateProcessed: "PROCESSED",
	StateFinished:  "FINISHED",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

func (s GameState) Valid() bool {
	return s >= StateUnset && s <= StateFinished
}

// ParseGameState returns the state named by name, e.g. "STARTED".
func ParseGameState(name string) (GameState, error) {
	for state, stateName := range gameStateNames {
		if stateName == name {
			return state, nil
		}
	}
	return StateUnset, fmt.Errorf("unknown game state %q", name)
}

// Next returns the linear successor of s. Unset jumps straight to STARTED and FINISHED
// wraps around to STARTED.
func (s GameState) Next() GameState {
	switch s {
	case StateUnset, StateFinished:
		return StateStarted
	default:
		return s + 1
	}
}

// Transition moves s to the requested state if it is the direct successor.
func (s GameState) Transition(to GameState) (GameState, error) {
	if !s.Valid() || s.Next() != to {
		return s, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, s, to)
	}
	return to, nil
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapSnapshot is the copy of the current round's map kept in the session for scoring.
type MapSnapshot struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Session is the per-client state bag.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	UserID        uint   `json:"user_id,omitempty"`

	GameState  GameState    `json:"gamestate"`
	MapOrder   []uint       `json:"map_order,omitempty"`
	MapIndex   int          `json:"map_index"`
	CurrentMap *MapSnapshot `json:"current_map,omitempty"`
	LastGuess  *Coordinate  `json:"last_guess,omitempty"`
	LastScore  int          `json:"map_score"`

	TotalScore          int `json:"total_score"`
	GamesPlayed         int `json:"games_played"`
	PreviousTotalScore  int `json:"old_total_score"`
	PreviousGamesPlayed int `json:"old_games_played"`
}

// Sanitize repairs fields that cannot have come from a well-behaved session: an
// unknown game state or a map index outside the order drops the game progress,
// negative counters are zeroed. It reports whether anything was changed.
func (s *Session) Sanitize() bool {
	changed := false
	if !s.GameState.Valid() || s.MapIndex < 0 || s.MapIndex > len(s.MapOrder) {
		s.GameState = StateUnset
		s.MapOrder = nil
		s.MapIndex = 0
		s.CurrentMap = nil
		s.LastGuess = nil
		changed = true
	}
	if s.TotalScore < 0 || s.GamesPlayed < 0 {
		s.TotalScore, s.GamesPlayed = 0, 0
		changed = true
	}
	if s.PreviousTotalScore < 0 || s.PreviousGamesPlayed < 0 {
		s.PreviousTotalScore, s.PreviousGamesPlayed = 0, 0
		changed = true
	}
	if !s.Authenticated && (s.Username != "" || s.UserID != 0) {
		s.Username, s.UserID = "", 0
		changed = true
	}
	return changed
}

// SessionStore persists sessions by id. Load returns a fresh Session for unknown ids.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// SessionService serialises access to one session. Update saves the session only when
// fn returns nil, so a rejected operation leaves the stored session untouched. Rotate
// moves a session to a freshly generated id and forgets the old one.
type SessionService interface {
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(sess *Session) error) (*Session, error)
	Rotate(ctx context.Context, id string) (string, error)
}

// View is the client-facing summary of the session's game progress.
func (s *Session) View() GameView {
	return GameView{
		State:               s.GameState.String(),
		TotalScore:          s.TotalScore,
		GamesPlayed:         s.GamesPlayed,
		LastScore:           s.LastScore,
		PreviousTotalScore:  s.PreviousTotalScore,
		PreviousGamesPlayed: s.PreviousGamesPlayed,
	}
}
