package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connect4/game"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidDepth     = errors.New("search depth must be at least 1")
)

// Algorithm selects how an agent picks its move.
type Algorithm string

const (
	Minimax   Algorithm = "minimax"
	MinimaxAB Algorithm = "minimax_ab"
	Iterative Algorithm = "iterative"
	Random    Algorithm = "random"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{Minimax, MinimaxAB, Iterative, Random}

func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Agent picks a move for player on b.
type Agent interface {
	FindMove(ctx context.Context, b game.Board, player game.Player) (Decision, error)
}

// Decision describes one chosen move and the work it took.
type Decision struct {
	Move          int // game.NoMove when the board has no legal move
	Value         int // 0 for the iterative and random algorithms
	NodesExpanded int64
	NodesPruned   int64
	Duration      time.Duration
	Depth         int // Requested depth, or the depth reached by iterative deepening
	// Shortcut is set when the move is an immediate win or block found without searching.
	Shortcut bool
}

// Config parameterizes a searching agent.
type Config struct {
	Algorithm Algorithm
	Depth     int
	TimeLimit time.Duration // Only used by Iterative
	Seed      uint64        // 0 draws a fresh random source for every decision
}
