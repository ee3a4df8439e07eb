package engine

import (
	"context"
	"time"

	"connect4/agent"
	"connect4/communication"
	"connect4/communication/client"
	"connect4/game"
)

// RemoteAgent asks a move server for its moves.
type RemoteAgent struct {
	Client    *client.Client
	Algorithm agent.Algorithm
	Depth     int
	TimeLimit time.Duration
}

func (a *RemoteAgent) FindMove(ctx context.Context, b game.Board, player game.Player) (agent.Decision, error) {
	id := int(player)
	algorithm := string(a.Algorithm)
	req := communication.MoveRequest{
		Board:     &b,
		Player:    &id,
		Algorithm: &algorithm,
		Depth:     &a.Depth,
	}
	if a.TimeLimit > 0 {
		seconds := a.TimeLimit.Seconds()
		req.TimeLimit = &seconds
	}

	resp, err := a.Client.Move(ctx, req)
	if err != nil {
		return agent.Decision{Move: game.NoMove}, err
	}

	d := agent.Decision{
		Move:          game.NoMove,
		Value:         resp.Value,
		NodesExpanded: resp.NodesExpanded,
		NodesPruned:   resp.PrunedNodes,
		Duration:      time.Duration(resp.DecisionTime * float64(time.Second)),
		Depth:         resp.Depth,
	}
	if resp.Move != nil {
		d.Move = *resp.Move
	}
	return d, nil
}
