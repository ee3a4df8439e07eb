package gamemaster

import (
	"errors"
	"fmt"

	"connect4/game"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrNotYourTurn = errors.New("not this player's turn")
	ErrNotStarted  = errors.New("game has not been initialized")
)

// Move is one applied move.
type Move struct {
	Player game.Player
	Col    int
	Row    int
}

// State is a snapshot of a game. Board is a value, so snapshots never alias.
type State struct {
	Board  game.Board
	ToMove game.Player
	Moves  int
	Over   bool
	Winner game.Player // game.Empty for a draw or an unfinished game
}

// UpdateGetter returns the next unread update, or nils when there is none.
// Once the game is over and every update has been read it keeps returning nils.
type UpdateGetter func() (*Move, *State)

// Session referees a single game.
type Session interface {
	Init(first game.Player) (State, UpdateGetter)
	Play(player game.Player, col int) (State, error)
}

type update struct {
	move  Move
	state State
}

type localSession struct {
	state    State
	updateCh chan update
}

func NewLocalSession() *localSession {
	return &localSession{}
}

func (s *localSession) Init(first game.Player) (State, UpdateGetter) {
	if !first.Valid() {
		first = game.PlayerOne
	}
	s.state = State{Board: game.NewBoard(), ToMove: first}
	// A game never has more moves than cells, so Play never blocks on an unread update
	updateCh := make(chan update, game.Rows*game.Cols)
	s.updateCh = updateCh

	return s.state, func() (*Move, *State) {
		select {
		case u, ok := <-updateCh:
			if !ok { // Game over
				return nil, nil
			}
			return &u.move, &u.state
		default:
			// No updates yet
			return nil, nil
		}
	}
}

// Play validates and applies a move for player, returning the new state.
func (s *localSession) Play(player game.Player, col int) (State, error) {
	if s.updateCh == nil {
		return s.state, ErrNotStarted
	}
	if s.state.Over {
		return s.state, ErrGameOver
	}
	if player != s.state.ToMove {
		return s.state, fmt.Errorf("%w: player %d, expected %d", ErrNotYourTurn, player, s.state.ToMove)
	}

	row, next, err := s.state.Board.Play(col, player)
	if err != nil {
		return s.state, err
	}

	s.state.Board = next
	s.state.Moves++
	s.state.ToMove = player.Opponent()
	if next.CheckWin(row, col, player) {
		s.state.Over, s.state.Winner = true, player
	} else if next.IsFull() {
		s.state.Over = true
	}

	s.updateCh <- update{move: Move{Player: player, Col: col, Row: row}, state: s.state}
	if s.state.Over {
		close(s.updateCh)
	}
	return s.state, nil
}
