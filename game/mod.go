package game

import "errors"

// Board dimensions.
const (
	Rows   = 6
	Cols   = 7
	Center = Cols / 2
	// Connect is the number of aligned pieces that wins the game.
	Connect = 4
)

var (
	// ErrInvalidMove is returned when a piece is dropped into a column that is out of range or full.
	ErrInvalidMove = errors.New("invalid move")
	// ErrInvalidBoard is returned when a decoded board does not describe a 6x7 grid of known cells.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrInvalidPlayer is returned for player identities other than 1 and 2.
	ErrInvalidPlayer = errors.New("invalid player")
)

// Evaluate scores a non-terminal board from the perspective of player.
// Positive values favor player.
type Evaluate func(b Board, player Player) int
