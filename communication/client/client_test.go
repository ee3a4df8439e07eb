package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect4/agent"
	"connect4/communication"
	"connect4/communication/server"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	s := server.New(server.Defaults{Player: 2, Algorithm: agent.MinimaxAB, Depth: 2, TimeLimit: time.Second}, metrics.NewAggregator(2))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/")
}

func TestClientMove(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.Ping(ctx))

	b := game.NewBoard()
	_, b, err := b.Play(3, game.PlayerOne)
	require.NoError(t, err)

	player, algorithm, depth := 2, string(agent.Minimax), 2
	resp, err := c.Move(ctx, communication.MoveRequest{Board: &b, Player: &player, Algorithm: &algorithm, Depth: &depth})
	require.NoError(t, err)
	require.NotNil(t, resp.Move)
	require.Contains(t, b.ValidMoves(), *resp.Move)
	require.Equal(t, 2, resp.Depth)
	require.Zero(t, resp.PrunedNodes)

	summary, err := c.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalMoves)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.Move(ctx, communication.MoveRequest{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "Board is required", statusErr.Message)

	unreachable := New("http://127.0.0.1:1")
	require.Error(t, unreachable.Ping(ctx))
}

func TestClientGameEnd(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.EndGame(ctx, 2))
	require.NoError(t, c.EndGame(ctx, 0))

	summary, err := c.Metrics(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, summary.GamesPlayed)
	require.Equal(t, 1, summary.AIWins)
	require.Equal(t, 1, summary.Draws)

	require.NoError(t, c.ResetMetrics(ctx))
	summary, err = c.Metrics(ctx)
	require.NoError(t, err)
	require.Zero(t, summary.GamesPlayed)
}
