package searcher

import (
	"errors"
	"fmt"
	"time"

	"connect4/game"

	"github.com/rs/zerolog/log"
)

var ErrInvalidBudget = errors.New("search budget must be positive")

// Result is the outcome of an iterative deepening search.
type Result struct {
	Move  int
	Depth int // Last fully searched depth, 0 for a tactical shortcut
	Stats Stats
}

// Deepen runs alpha-beta searches of increasing depth until maxDepth is
// reached, timeLimit has elapsed, or a winning move is found. The clock is
// only checked between depths; a depth that has started always completes.
// Immediate wins, then immediate blocks, are returned without searching.
func Deepen(b game.Board, maxDepth int, player game.Player, timeLimit time.Duration, options ...Option) (Result, error) {
	if maxDepth <= 0 || timeLimit <= 0 {
		return Result{Move: game.NoMove}, fmt.Errorf("%w: max depth %d, time limit %v", ErrInvalidBudget, maxDepth, timeLimit)
	}
	if !player.Valid() {
		return Result{Move: game.NoMove}, fmt.Errorf("%w: %d", game.ErrInvalidPlayer, player)
	}

	start := time.Now()
	result := Result{Move: game.NoMove}

	moves := b.ValidMoves()
	if len(moves) == 0 {
		return result, nil
	}

	if col, ok := WinningMove(b, moves, player); ok {
		result.Move = col
		return result, nil
	}
	if col, ok := WinningMove(b, moves, player.Opponent()); ok {
		result.Move = col
		return result, nil
	}

	s := newSearch(player, &result.Stats, true, options...)
	for depth := 1; depth <= maxDepth; depth++ {
		// The first depth always runs so that a playable position yields a move
		if depth > 1 && time.Since(start) > timeLimit {
			log.Debug().Int("depth", result.Depth).Dur("elapsed", time.Since(start)).Msg("time-budget-exhausted")
			break
		}

		result.Stats.Reset()
		_, move := s.minimax(b, depth, -Infinity, Infinity, true)
		result.Move = move
		result.Depth = depth

		log.Debug().
			Int("depth", depth).
			Int("move", move).
			Int64("nodes", result.Stats.NodesExpanded).
			Int64("pruned", result.Stats.NodesPruned).
			Dur("elapsed", time.Since(start)).
			Msg("deepening-iteratively")

		if wins(b, move, player) {
			break
		}
	}

	return result, nil
}

// WinningMove returns the first column among moves where player completes a line.
func WinningMove(b game.Board, moves []int, player game.Player) (int, bool) {
	for _, col := range moves {
		if wins(b, col, player) {
			return col, true
		}
	}
	return game.NoMove, false
}

func wins(b game.Board, col int, player game.Player) bool {
	row, next, err := b.Play(col, player)
	if err != nil {
		return false
	}
	return next.CheckWin(row, col, player)
}
