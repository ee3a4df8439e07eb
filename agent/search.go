package agent

import (
	"context"
	"fmt"
	"time"

	"connect4/game"
	"connect4/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Search is an Agent that runs one of the search algorithms in-process.
// An agent created with a seed owns a single random source and must not be
// used from several goroutines at once.
type Search struct {
	cfg        Config
	randomness float64
	rng        *rand.Rand
}

// New validates cfg and returns a searching agent.
func New(cfg Config) (*Search, error) {
	switch cfg.Algorithm {
	case Minimax, MinimaxAB:
		if cfg.Depth < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, cfg.Depth)
		}
	case Iterative:
		if cfg.Depth < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, cfg.Depth)
		}
		if cfg.TimeLimit <= 0 {
			return nil, fmt.Errorf("%w: time limit %v", searcher.ErrInvalidBudget, cfg.TimeLimit)
		}
	case Random:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, cfg.Algorithm)
	}

	s := &Search{
		cfg:        cfg,
		randomness: searcher.Randomness(cfg.Depth),
	}
	if cfg.Seed != 0 {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return s, nil
}

func (s *Search) Config() Config {
	return s.cfg
}

func (s *Search) FindMove(ctx context.Context, b game.Board, player game.Player) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{Move: game.NoMove}, err
	}
	if !player.Valid() {
		return Decision{Move: game.NoMove}, fmt.Errorf("%w: %d", game.ErrInvalidPlayer, player)
	}

	start := time.Now()
	moves := b.ValidMoves()
	if len(moves) == 0 {
		return Decision{Move: game.NoMove}, nil
	}

	if col, ok := searcher.WinningMove(b, moves, player); ok {
		return shortcut(col, searcher.Win, start), nil
	}
	if col, ok := searcher.WinningMove(b, moves, player.Opponent()); ok {
		return shortcut(col, -searcher.Win, start), nil
	}

	rng := s.rng
	if rng == nil {
		rng = searcher.NewRand()
	}
	options := []searcher.Option{searcher.WithRand(rng), searcher.WithRandomness(s.randomness)}

	d := Decision{Depth: s.cfg.Depth}
	stats := &searcher.Stats{}
	switch s.cfg.Algorithm {
	case Random:
		d.Move = moves[rng.Intn(len(moves))]
		stats.NodesExpanded = 1
	case Minimax:
		d.Value, d.Move = searcher.Minimax(b, s.cfg.Depth, true, player, stats, options...)
	case MinimaxAB:
		d.Value, d.Move = searcher.AlphaBeta(b, s.cfg.Depth, -searcher.Infinity, searcher.Infinity, true, player, stats, options...)
	case Iterative:
		result, err := searcher.Deepen(b, s.cfg.Depth, player, s.cfg.TimeLimit, options...)
		if err != nil {
			return Decision{Move: game.NoMove}, err
		}
		d.Move, d.Depth = result.Move, result.Depth
		*stats = result.Stats
	}

	d.NodesExpanded = stats.NodesExpanded
	d.NodesPruned = stats.NodesPruned
	d.Duration = time.Since(start)

	log.Debug().
		Str("algorithm", string(s.cfg.Algorithm)).
		Int("move", d.Move).
		Int("value", d.Value).
		Int64("nodes", d.NodesExpanded).
		Dur("elapsed", d.Duration).
		Msg("move-found")
	return d, nil
}

func shortcut(col, value int, start time.Time) Decision {
	return Decision{
		Move:          col,
		Value:         value,
		NodesExpanded: 1,
		Duration:      time.Since(start),
		Shortcut:      true,
	}
}
