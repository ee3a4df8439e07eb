package experiments

import (
	"context"
	"fmt"

	"connect4/agent"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// RandomPositions plays `plies` random moves from the empty board, keeping
// only positions that are still open, until n positions are found.
func RandomPositions(n, plies int, seed uint64) []game.Board {
	rng := rand.New(rand.NewSource(seed))
	positions := make([]game.Board, 0, n)
	for len(positions) < n {
		b := game.NewBoard()
		player := game.PlayerOne
		open := true
		for i := 0; i < plies && open; i++ {
			moves := b.ValidMoves()
			col := moves[rng.Intn(len(moves))]
			row, next, _ := b.Play(col, player)
			open = !next.CheckWin(row, col, player) && !next.IsFull()
			b, player = next, player.Opponent()
		}
		if open {
			positions = append(positions, b)
		}
	}
	return positions
}

// MeasureThroughput times every configuration on the same positions,
// searching for the player to move.
func MeasureThroughput(ctx context.Context, configs []metrics.AgentConfig, positions []game.Board) ([]metrics.ThroughputRecord, error) {
	records := make([]metrics.ThroughputRecord, 0, len(configs))

	log.Info().Msgf("starting throughput experiment over %d positions...", len(positions))
	for _, config := range configs {
		a, err := agent.New(agent.Config{
			Algorithm: agent.Algorithm(config.Algorithm),
			Depth:     config.Depth,
			TimeLimit: config.TimeLimit,
			Seed:      uint64(config.ID),
		})
		if err != nil {
			return nil, err
		}

		record := metrics.ThroughputRecord{Config: config, Positions: len(positions)}
		for _, b := range positions {
			player := game.PlayerOne
			if b.Count()%2 == 1 {
				player = game.PlayerTwo
			}
			d, err := a.FindMove(ctx, b, player)
			if err != nil {
				return nil, fmt.Errorf("config %d: %w", config.ID, err)
			}
			record.NodesExpanded += d.NodesExpanded
			record.NodesPruned += d.NodesPruned
			record.Duration += d.Duration
		}
		records = append(records, record)

		log.Info().
			Str("algorithm", config.Algorithm).
			Int("depth", config.Depth).
			Int64("nodes", record.NodesExpanded).
			Float64("nodes-per-second", record.NodesPerSecond()).
			Msg("completed configuration")
	}
	log.Info().Msg("completed throughput experiment")
	return records, nil
}

// RunThroughputExperiment measures throughput and stores it under root/<name>/<timestamp>.
func RunThroughputExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, positions []game.Board, root string) (string, error) {
	records, err := MeasureThroughput(ctx, configs, positions)
	if err != nil {
		return "", err
	}

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err = writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	if err = writer.WriteThroughput(records); err != nil {
		return "", err
	}
	log.Info().Msg("stored throughput records")
	return writer.Dir(), nil
}
