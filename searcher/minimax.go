package searcher

import (
	"math"

	"connect4/game"

	"golang.org/x/exp/rand"
)

// search carries everything one top-level search call owns: the perspective
// player, the weakening policy, its random source and its counters.
type search struct {
	player     game.Player
	randomness float64
	rng        *rand.Rand
	evaluate   game.Evaluate
	stats      *Stats
	prune      bool
}

func newSearch(player game.Player, stats *Stats, prune bool, options ...Option) *search {
	if stats == nil {
		stats = &Stats{}
	}
	s := &search{ // Default values
		player:   player,
		evaluate: game.EvaluateBoard,
		stats:    stats,
		prune:    prune,
	}
	for _, option := range options {
		option(s)
	}
	if s.rng == nil {
		s.rng = NewRand()
	}
	return s
}

// Minimax searches depth plies without pruning and returns the value of b
// for player together with the chosen column (game.NoMove at leaves).
func Minimax(b game.Board, depth int, maximizing bool, player game.Player, stats *Stats, options ...Option) (int, int) {
	s := newSearch(player, stats, false, options...)
	return s.minimax(b, depth, -Infinity, Infinity, maximizing)
}

// AlphaBeta is Minimax with alpha-beta pruning. Called with the full window
// (-Infinity, Infinity) it returns the same value as Minimax.
func AlphaBeta(b game.Board, depth, alpha, beta int, maximizing bool, player game.Player, stats *Stats, options ...Option) (int, int) {
	s := newSearch(player, stats, true, options...)
	return s.minimax(b, depth, alpha, beta, maximizing)
}

// minimax is shared by both variants. Values are always from s.player's
// perspective; maximizing selects which side is to move and which way
// comparisons go.
func (s *search) minimax(b game.Board, depth, alpha, beta int, maximizing bool) (int, int) {
	s.stats.addNode()

	if over, winner := b.Terminal(); over {
		switch winner {
		case s.player:
			return Win - depth, game.NoMove
		case s.player.Opponent():
			return -Win + depth, game.NoMove
		}
		return 0, game.NoMove // Draw
	}

	if depth <= 0 {
		return s.evaluate(b, s.player) + s.noise(), game.NoMove
	}

	moves := s.candidates(b)
	if len(moves) == 0 {
		return 0, game.NoMove
	}

	side, win := s.player, Win-depth
	if !maximizing {
		side, win = s.player.Opponent(), -win
	}

	best := 0
	tied := make([]int, 0, len(moves))
	for i, col := range moves {
		row, child, err := b.Play(col, side)
		if err != nil {
			continue
		}
		if child.CheckWin(row, col, side) {
			return win, col
		}

		// Relax the bound on the improving side by one point, so that a child
		// tied with the current best is searched exactly rather than cut off.
		childAlpha, childBeta := alpha, beta
		if s.prune {
			if maximizing && alpha > -Infinity {
				childAlpha = alpha - 1
			} else if !maximizing && beta < Infinity {
				childBeta = beta + 1
			}
		}
		value, _ := s.minimax(child, depth-1, childAlpha, childBeta, !maximizing)

		switch {
		case len(tied) == 0 || improves(value, best, maximizing):
			best = value
			tied = append(tied[:0], col)
		case value == best:
			tied = append(tied, col)
		}

		if !s.prune {
			continue
		}
		if maximizing {
			alpha = max(alpha, value)
		} else {
			beta = min(beta, value)
		}
		if beta <= alpha {
			s.stats.addPruned(len(moves) - i - 1)
			break
		}
	}

	return best, s.choose(moves, tied)
}

// candidates orders the legal columns center first. Weakened searches shuffle
// them so that equal moves are explored, and kept, in a random order.
func (s *search) candidates(b game.Board) []int {
	moves := OrderMoves(b.ValidMoves())
	if s.randomness > 0 {
		s.rng.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	}
	return moves
}

// choose picks the move to report: a uniformly random legal move with
// probability s.randomness, otherwise a random one among the best.
func (s *search) choose(moves, tied []int) int {
	if s.randomness > 0 && s.rng.Float64() < s.randomness {
		return moves[s.rng.Intn(len(moves))]
	}
	if len(tied) > 0 {
		return tied[s.rng.Intn(len(tied))]
	}
	return moves[0]
}

// noise returns a uniform integer in [-NoiseScale*r, NoiseScale*r].
func (s *search) noise() int {
	span := int(math.Round(NoiseScale * s.randomness))
	if span == 0 {
		return 0
	}
	return s.rng.Intn(2*span+1) - span
}

func improves(value, best int, maximizing bool) bool {
	if maximizing {
		return value > best
	}
	return value < best
}
