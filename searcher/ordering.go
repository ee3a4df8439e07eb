package searcher

import (
	"slices"

	"connect4/game"
)

// OrderMoves returns a copy of moves sorted by distance from the center
// column. Columns at the same distance keep their input order.
func OrderMoves(moves []int) []int {
	ordered := slices.Clone(moves)
	slices.SortStableFunc(ordered, func(a, b int) int {
		return centerDistance(a) - centerDistance(b)
	})
	return ordered
}

func centerDistance(col int) int {
	d := col - game.Center
	if d < 0 {
		return -d
	}
	return d
}
