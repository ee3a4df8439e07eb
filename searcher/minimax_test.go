package searcher

import (
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

/*
minimax / alpha-beta:
- leaf: heuristic value, no move
- terminal: depth adjusted win/loss, draw 0
- immediate win: returned before recursing
- equivalence: same value with and without pruning, never more nodes with pruning
- ties: every reported move is one of the best moves
- weakening: random but legal moves, reproducible by seed
*/

type position struct {
	board  game.Board
	player game.Player
}

// randomPositions plays random games and keeps the positions that are not
// over and where the side to move cannot win at once.
func randomPositions(seed uint64, games int) []position {
	rng := rand.New(rand.NewSource(seed))
	positions := []position{}
	for g := 0; g < games; g++ {
		b := game.NewBoard()
		player := game.PlayerOne
		for {
			if over, _ := b.Terminal(); over {
				break
			}
			moves := b.ValidMoves()
			if _, ok := WinningMove(b, moves, player); !ok {
				positions = append(positions, position{b, player})
			}
			_, b, _ = b.Play(moves[rng.Intn(len(moves))], player)
			player = player.Opponent()
		}
	}
	return positions
}

func play(t *testing.T, b game.Board, player game.Player, cols ...int) game.Board {
	t.Helper()
	for _, col := range cols {
		var err error
		_, b, err = b.Play(col, player)
		require.NoError(t, err)
	}
	return b
}

func TestMinimaxLeaves(t *testing.T) {
	t.Run("depth zero returns the heuristic value", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerOne, 3)
		stats := &Stats{}

		value, move := Minimax(b, 0, true, game.PlayerOne, stats, WithSeed(1))

		require.Equal(t, game.EvaluateBoard(b, game.PlayerOne), value)
		require.Equal(t, game.NoMove, move, "Leaves should not report a move")
		require.Equal(t, int64(1), stats.NodesExpanded)
	})

	t.Run("won board scores a loss for the other player", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerTwo, 0, 0, 0, 0)

		value, move := Minimax(b, 3, true, game.PlayerOne, nil, WithSeed(1))
		require.Equal(t, -Win+3, value)
		require.Equal(t, game.NoMove, move)

		value, _ = AlphaBeta(b, 3, -Infinity, Infinity, true, game.PlayerTwo, nil, WithSeed(1))
		require.Equal(t, Win-3, value)
	})

	t.Run("full board is a draw", func(t *testing.T) {
		var b game.Board
		for row := 0; row < game.Rows; row++ {
			for col := 0; col < game.Cols; col++ {
				b[row][col] = game.Player(1 + (row/2+col)%2)
			}
		}

		value, move := AlphaBeta(b, 4, -Infinity, Infinity, true, game.PlayerOne, nil, WithSeed(1))
		require.Equal(t, 0, value)
		require.Equal(t, game.NoMove, move)
	})

	t.Run("custom evaluation function", func(t *testing.T) {
		flat := func(game.Board, game.Player) int { return 7 }

		value, move := AlphaBeta(game.NewBoard(), 2, -Infinity, Infinity, true, game.PlayerOne, nil,
			WithSeed(1), WithEvaluationFn(flat))

		require.Equal(t, 7, value)
		b := game.NewBoard()
		require.Contains(t, b.ValidMoves(), move)
	})

	t.Run("leaf noise stays within bounds", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerOne, 3)
		base := game.EvaluateBoard(b, game.PlayerOne)
		for seed := uint64(0); seed < 50; seed++ {
			value, _ := Minimax(b, 0, true, game.PlayerOne, nil, WithSeed(seed), WithRandomness(0.2))
			require.InDelta(t, base, value, NoiseScale*0.2)
		}
	})
}

func TestMinimaxMoves(t *testing.T) {
	t.Run("empty board at depth one prefers the center", func(t *testing.T) {
		stats := &Stats{}
		value, move := Minimax(game.NewBoard(), 1, true, game.PlayerOne, stats, WithSeed(42))

		require.Equal(t, game.Center, move)
		require.Equal(t, game.CenterWeight+7*game.OneScore, value)
		require.Equal(t, int64(1+game.Cols), stats.NodesExpanded, "Root plus one leaf per column")
	})

	t.Run("takes an immediate win without recursing", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerOne, 0, 1, 2)
		b = play(t, b, game.PlayerTwo, 0, 1, 2)
		stats := &Stats{}

		value, move := AlphaBeta(b, 5, -Infinity, Infinity, true, game.PlayerOne, stats, WithSeed(1))

		require.Equal(t, 3, move)
		require.Equal(t, Win-5, value)
	})

	t.Run("blocks the opponent's line", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerTwo, 0, 1, 2)
		b = play(t, b, game.PlayerOne, 6)

		for _, search := range []func() (int, int){
			func() (int, int) { return Minimax(b, 2, true, game.PlayerOne, nil, WithSeed(3)) },
			func() (int, int) {
				return AlphaBeta(b, 2, -Infinity, Infinity, true, game.PlayerOne, nil, WithSeed(3))
			},
		} {
			_, move := search()
			require.Equal(t, 3, move, "Only the block avoids an immediate loss")
		}
	})

	t.Run("same seed reproduces a weakened search", func(t *testing.T) {
		b := play(t, game.NewBoard(), game.PlayerOne, 3)
		b = play(t, b, game.PlayerTwo, 2)

		v1, m1 := AlphaBeta(b, 3, -Infinity, Infinity, true, game.PlayerOne, nil, WithSeed(9), WithRandomness(0.2))
		v2, m2 := AlphaBeta(b, 3, -Infinity, Infinity, true, game.PlayerOne, nil, WithSeed(9), WithRandomness(0.2))
		require.Equal(t, v1, v2)
		require.Equal(t, m1, m2)
	})

	t.Run("weakened search makes legal mistakes", func(t *testing.T) {
		b := game.NewBoard()
		moves := map[int]int{}
		for seed := uint64(0); seed < 200; seed++ {
			_, move := Minimax(b, 1, true, game.PlayerOne, nil, WithSeed(seed), WithRandomness(0.2))
			require.Contains(t, b.ValidMoves(), move)
			moves[move]++
		}
		require.Greater(t, moves[game.Center], 100, "Best move should still dominate")
		require.Greater(t, len(moves), 1, "Some moves should be deliberate mistakes")
	})
}

func TestAlphaBetaEquivalence(t *testing.T) {
	positions := randomPositions(11, 3)
	require.NotEmpty(t, positions)

	for depth := 1; depth <= 4; depth++ {
		for _, pos := range positions {
			for _, maximizing := range []bool{true, false} {
				plainStats, abStats := &Stats{}, &Stats{}

				plain, _ := Minimax(pos.board, depth, maximizing, pos.player, plainStats, WithSeed(5))
				pruned, _ := AlphaBeta(pos.board, depth, -Infinity, Infinity, maximizing, pos.player, abStats, WithSeed(5))

				require.Equal(t, plain, pruned, "depth %d maximizing %v board:\n%s", depth, maximizing, pos.board)
				require.LessOrEqual(t, abStats.NodesExpanded, plainStats.NodesExpanded)
				require.GreaterOrEqual(t, abStats.NodesPruned, int64(0))
				require.Zero(t, plainStats.NodesPruned, "Plain minimax never prunes")
			}
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	plainStats, abStats := &Stats{}, &Stats{}

	Minimax(game.NewBoard(), 4, true, game.PlayerOne, plainStats, WithSeed(1))
	AlphaBeta(game.NewBoard(), 4, -Infinity, Infinity, true, game.PlayerOne, abStats, WithSeed(1))

	require.Less(t, abStats.NodesExpanded, plainStats.NodesExpanded)
	require.Positive(t, abStats.NodesPruned)
}

func TestAlphaBetaTies(t *testing.T) {
	// bestMoves evaluates every root move exactly with plain minimax
	bestMoves := func(b game.Board, depth int, player game.Player) []int {
		best, tied := -Infinity, []int{}
		for _, col := range OrderMoves(b.ValidMoves()) {
			_, child, err := b.Play(col, player)
			require.NoError(t, err)
			value, _ := Minimax(child, depth-1, false, player, nil, WithSeed(1))
			switch {
			case value > best:
				best, tied = value, []int{col}
			case value == best:
				tied = append(tied, col)
			}
		}
		return tied
	}

	for _, pos := range randomPositions(23, 2) {
		tied := bestMoves(pos.board, 3, pos.player)
		for seed := uint64(0); seed < 5; seed++ {
			_, move := AlphaBeta(pos.board, 3, -Infinity, Infinity, true, pos.player, nil, WithSeed(seed))
			require.Contains(t, tied, move, "board:\n%s", pos.board)
		}
	}
}
