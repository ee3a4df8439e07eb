package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"connect4/agent"
	"connect4/communication/client"
	"connect4/communication/server"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/stretchr/testify/require"
)

type fixedAgent struct {
	col int
	err error
}

func (a fixedAgent) FindMove(context.Context, game.Board, game.Player) (agent.Decision, error) {
	return agent.Decision{Move: a.col}, a.err
}

func newSeat(t *testing.T, cfg agent.Config) Seat {
	t.Helper()
	a, err := agent.New(cfg)
	require.NoError(t, err)
	return Seat{Agent: a, Label: string(cfg.Algorithm), Depth: cfg.Depth}
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("random agents finish a game", func(t *testing.T) {
		seats := [2]Seat{
			newSeat(t, agent.Config{Algorithm: agent.Random, Seed: 1}),
			newSeat(t, agent.Config{Algorithm: agent.Random, Seed: 2}),
		}
		gm, moves, err := LocalEngine(seats, game.PlayerTwo).Run(context.Background())
		require.NoError(t, err)

		require.Equal(t, 2, gm.StartingPlayer)
		require.Contains(t, []int{0, 1, 2}, gm.Winner)
		require.Equal(t, gm.TotalMoves, len(moves))
		require.LessOrEqual(t, gm.TotalMoves, MaxMoves)
		require.False(t, gm.EndTime.Before(gm.StartTime))

		for i, m := range moves {
			require.Equal(t, i+1, m.Step)
			wantPlayer := 2 - i%2
			require.Equal(t, wantPlayer, m.Player, "players alternate starting with player 2")
			require.Equal(t, "random", m.Algorithm)
		}

		var last game.Board
		require.NoError(t, json.Unmarshal([]byte(moves[len(moves)-1].Board), &last))
		over, winner := last.Terminal()
		require.True(t, over)
		require.Equal(t, gm.Winner, int(winner))
	})

	t.Run("search beats random", func(t *testing.T) {
		wins := 0
		for seed := uint64(1); seed <= 3; seed++ {
			seats := [2]Seat{
				newSeat(t, agent.Config{Algorithm: agent.MinimaxAB, Depth: 4, Seed: seed}),
				newSeat(t, agent.Config{Algorithm: agent.Random, Seed: seed}),
			}
			gm, _, err := LocalEngine(seats, game.PlayerOne).Run(context.Background())
			require.NoError(t, err)
			if gm.Winner == 1 {
				wins++
			}
		}
		require.GreaterOrEqual(t, wins, 2)
	})

	t.Run("agent errors stop the game", func(t *testing.T) {
		boom := errors.New("boom")
		seats := [2]Seat{{Agent: fixedAgent{col: 0, err: boom}}, {Agent: fixedAgent{col: 0}}}

		_, moves, err := LocalEngine(seats, game.PlayerOne).Run(context.Background())
		require.ErrorIs(t, err, boom)
		require.Empty(t, moves)
	})

	t.Run("illegal moves stop the game", func(t *testing.T) {
		seats := [2]Seat{{Agent: fixedAgent{col: 0}}, {Agent: fixedAgent{col: 0}}}

		_, moves, err := LocalEngine(seats, game.PlayerOne).Run(context.Background())
		require.ErrorIs(t, err, game.ErrInvalidMove)
		require.Len(t, moves, game.Rows, "column 0 fills up before the seventh move")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		seats := [2]Seat{{Agent: fixedAgent{col: 0}}, {Agent: fixedAgent{col: 1}}}

		_, _, err := LocalEngine(seats, game.PlayerOne).Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRemoteAgent(t *testing.T) {
	s := server.New(server.Defaults{Player: 2, Algorithm: agent.MinimaxAB, Depth: 3, TimeLimit: time.Second}, metrics.NewAggregator(2))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	remote := &RemoteAgent{Client: client.New(ts.URL), Algorithm: agent.Iterative, Depth: 2, TimeLimit: time.Second}
	seats := [2]Seat{
		{Agent: remote, Label: "remote", Depth: 2},
		newSeat(t, agent.Config{Algorithm: agent.Random, Seed: 9}),
	}

	gm, moves, err := LocalEngine(seats, game.PlayerOne).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, gm.TotalMoves, len(moves))
	require.Equal(t, "remote", moves[0].Algorithm)
	require.Positive(t, moves[0].NodesExpanded)
}
