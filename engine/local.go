package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"connect4/agent"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/gamemaster"

	"github.com/rs/zerolog/log"
)

// Seat is one side of a local game.
type Seat struct {
	Agent agent.Agent
	// Label and Depth are copied into the move metrics
	Label string
	Depth int
}

type Local struct {
	seats   [2]Seat // Indexed by player ID - 1
	first   game.Player
	session gamemaster.Session
}

// LocalEngine returns an engine in which seats[0] plays as PlayerOne and
// seats[1] as PlayerTwo, with first moving first.
func LocalEngine(seats [2]Seat, first game.Player) *Local {
	return &Local{
		seats:   seats,
		first:   first,
		session: gamemaster.NewLocalSession(),
	}
}

// Run executes the entire game loop until the game is over.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	state, getUpdate := e.session.Init(e.first)
	gm := metrics.GameMetric{
		StartingPlayer: int(state.ToMove),
		StartTime:      time.Now(),
	}
	moves := make([]metrics.MoveMetric, 0, MaxMoves)

	log.Debug().Msgf("player %d is starting", state.ToMove)

	for !state.Over {
		if err := ctx.Err(); err != nil {
			return gm, moves, err
		}
		player := state.ToMove
		seat := e.seats[player-1]

		d, err := seat.Agent.FindMove(ctx, state.Board, player)
		if err != nil {
			return gm, moves, fmt.Errorf("player %d: %w", player, err)
		}
		if d.Move == game.NoMove {
			return gm, moves, fmt.Errorf("player %d: %w: agent returned no move", player, game.ErrInvalidMove)
		}

		state, err = e.session.Play(player, d.Move)
		if err != nil {
			return gm, moves, fmt.Errorf("player %d: %w", player, err)
		}
		move, _ := getUpdate()
		if move == nil {
			return gm, moves, fmt.Errorf("player %d: move %d was not published", player, d.Move)
		}

		board, err := json.Marshal(state.Board)
		if err != nil {
			return gm, moves, err
		}
		moves = append(moves, metrics.MoveMetric{
			Step:          state.Moves,
			Player:        int(player),
			Column:        move.Col,
			Row:           move.Row,
			Algorithm:     seat.Label,
			Depth:         seat.Depth,
			NodesExpanded: d.NodesExpanded,
			NodesPruned:   d.NodesPruned,
			Duration:      d.Duration,
			Board:         string(board),
			Timestamp:     time.Now(),
		})
	}

	gm.Winner = int(state.Winner)
	gm.TotalMoves = state.Moves
	gm.EndTime = time.Now()
	gm.Duration = gm.EndTime.Sub(gm.StartTime)
	return gm, moves, nil
}
