package engine

import (
	"context"

	"connect4/experiments/metrics"
	"connect4/game"
)

// MaxMoves is the length of the longest possible game.
const MaxMoves = game.Rows * game.Cols

type Engine interface {
	// Run plays a game until there's a winner or the board is full
	Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error)
}
