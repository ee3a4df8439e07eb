package game

import "fmt"

// NoMove is the column reported when there is nothing to play.
const NoMove = -1

// NoRow is returned by DropRow for a full or out-of-range column.
const NoRow = -1

// Player identifies the owner of a cell. Empty marks an unoccupied cell.
type Player int8

const (
	Empty Player = iota
	PlayerOne
	PlayerTwo
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return Empty
	}
}

func (p Player) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "X"
	case PlayerTwo:
		return "O"
	default:
		return "."
	}
}

// ParsePlayer converts the wire representation (1 or 2) into a Player.
func ParsePlayer(id int) (Player, error) {
	p := Player(id)
	if !p.Valid() {
		return Empty, fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	return p, nil
}
