package experiments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync/atomic"
	"time"

	"connect4/agent"
	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

var ErrInvalidSetup = errors.New("invalid experiment setup")

// Setup describes a self-play experiment. It is stored next to the results as setup.yaml.
type Setup struct {
	Name        string        `yaml:"name"`
	Games       int           `yaml:"games"`
	Algorithms  []string      `yaml:"algorithms"`
	Depths      []int         `yaml:"depths"`
	TimeLimit   time.Duration `yaml:"time_limit"` // Per move, iterative deepening only
	Concurrency int           `yaml:"concurrency"`
	Seed        uint64        `yaml:"seed"` // 0 picks one at random
	StartTime   time.Time     `yaml:"start_time"`
	EndTime     time.Time     `yaml:"end_time"`
}

type Results struct {
	Configs []metrics.AgentConfig
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
}

// plannedGame is everything decided about one game before it is played,
// so that results do not depend on scheduling.
type plannedGame struct {
	id     int
	agents [2]metrics.AgentConfig
	first  game.Player
	seeds  [2]uint64
}

// Configs returns one agent configuration per algorithm and depth.
func Configs(algorithms []string, depths []int, timeLimit time.Duration) ([]metrics.AgentConfig, error) {
	if len(algorithms) == 0 || len(depths) == 0 {
		return nil, fmt.Errorf("%w: need at least one algorithm and one depth", ErrInvalidSetup)
	}
	configs := []metrics.AgentConfig{}
	for _, name := range algorithms {
		a, err := agent.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		for _, depth := range depths {
			if depth < 1 {
				return nil, fmt.Errorf("%w: %d", agent.ErrInvalidDepth, depth)
			}
			config := metrics.AgentConfig{ID: len(configs) + 1, Algorithm: string(a), Depth: depth}
			if a == agent.Iterative {
				config.TimeLimit = timeLimit
			}
			configs = append(configs, config)
		}
	}
	return configs, nil
}

// Matchups pairs every configuration with every configuration, itself included, on both sides.
func Matchups(configs []metrics.AgentConfig) [][2]metrics.AgentConfig {
	return lo.FlatMap(configs, func(c1 metrics.AgentConfig, _ int) [][2]metrics.AgentConfig {
		return lo.Map(configs, func(c2 metrics.AgentConfig, _ int) [2]metrics.AgentConfig {
			return [2]metrics.AgentConfig{c1, c2}
		})
	})
}

// Collect plays setup.Games games, cycling through the shuffled matchups, with
// at most setup.Concurrency games in flight.
func Collect(ctx context.Context, setup Setup) (Results, error) {
	if setup.Games <= 0 {
		return Results{}, fmt.Errorf("%w: games must be positive, got %d", ErrInvalidSetup, setup.Games)
	}
	configs, err := Configs(setup.Algorithms, setup.Depths, setup.TimeLimit)
	if err != nil {
		return Results{}, err
	}

	seed := setup.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	rng := rand.New(rand.NewSource(seed))

	matchups := Matchups(configs)
	rng.Shuffle(len(matchups), func(i, j int) {
		matchups[i], matchups[j] = matchups[j], matchups[i]
	})

	planned := make([]plannedGame, setup.Games)
	for i := range planned {
		planned[i] = plannedGame{
			id:     i,
			agents: matchups[i%len(matchups)],
			first:  game.Player(rng.Intn(2) + 1),
			seeds:  [2]uint64{rng.Uint64() | 1, rng.Uint64() | 1},
		}
	}

	log.Info().Msgf("starting data collection: %d games over %d matchups", setup.Games, len(matchups))

	games := make([]metrics.GameRecord, setup.Games)
	moves := make([][]metrics.MoveRecord, setup.Games)
	var completed atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, setup.Concurrency))
	for _, p := range planned {
		g.Go(func() error {
			record, gameMoves, err := playGame(ctx, p)
			if err != nil {
				return fmt.Errorf("game %d: %w", p.id, err)
			}
			games[p.id] = record
			moves[p.id] = gameMoves

			if n := completed.Add(1); n%10 == 0 {
				log.Info().Msgf("progress: %d/%d games collected", n, setup.Games)
				log.Info().Msgf("  last game: %d won in %d moves", record.Winner, record.TotalMoves)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	results := Results{
		Configs: configs,
		Games:   games,
		Moves:   lo.Flatten(moves),
	}
	log.Info().Msgf("data collection complete: %d games, %d moves", len(results.Games), len(results.Moves))
	return results, nil
}

func playGame(ctx context.Context, p plannedGame) (metrics.GameRecord, []metrics.MoveRecord, error) {
	var seats [2]engine.Seat
	for i, config := range p.agents {
		a, err := agent.New(agent.Config{
			Algorithm: agent.Algorithm(config.Algorithm),
			Depth:     config.Depth,
			TimeLimit: config.TimeLimit,
			Seed:      p.seeds[i],
		})
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		seats[i] = engine.Seat{Agent: a, Label: config.Algorithm, Depth: config.Depth}
	}

	gm, moveMetrics, err := engine.LocalEngine(seats, p.first).Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:         p.id,
		Agent1:     p.agents[0],
		Agent2:     p.agents[1],
		GameMetric: gm,
	}
	moveRecords := lo.Map(moveMetrics, func(mm metrics.MoveMetric, _ int) metrics.MoveRecord {
		return metrics.MoveRecord{Game: p.id, MoveMetric: mm}
	})
	return record, moveRecords, nil
}

// Run collects games and stores them under root/<name>/<timestamp>. It returns the output directory.
func Run(ctx context.Context, setup Setup, root string) (string, error) {
	setup.StartTime = time.Now().UTC()
	results, err := Collect(ctx, setup)
	if err != nil {
		return "", err
	}
	setup.EndTime = time.Now().UTC()

	writer, err := metrics.NewWriter(root, setup.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err = writer.WriteSetup(setup); err != nil {
		return "", err
	}
	if err = writer.WriteAgentConfigs(results.Configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")
	if err = writer.WriteGameRecords(results.Games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")
	if err = writer.WriteMoveRecords(results.Moves); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")

	if err = Report(results); err != nil {
		return "", err
	}
	return writer.Dir(), nil
}

// Report prints the outcome counts, per-algorithm statistics and a histogram
// of nodes expanded per move.
func Report(results Results) error {
	if len(results.Games) == 0 {
		return nil
	}
	winners := lo.CountValuesBy(results.Games, func(g metrics.GameRecord) int { return g.Winner })
	total := len(results.Games)
	low, high := metrics.WinRateInterval(winners[1], total, 95)

	log.Info().
		Int("games", total).
		Int("player1-wins", winners[1]).
		Int("player2-wins", winners[2]).
		Int("draws", winners[0]).
		Float64("player1-win-rate-low", low).
		Float64("player1-win-rate-high", high).
		Float64("average-moves", lo.MeanBy(results.Games, func(g metrics.GameRecord) float64 { return float64(g.TotalMoves) })).
		Float64("average-duration", lo.MeanBy(results.Games, func(g metrics.GameRecord) float64 { return g.Duration.Seconds() })).
		Msg("summary")

	if err := metrics.FprintSummary(os.Stdout, metrics.Summarize(results.Moves)); err != nil {
		return err
	}
	nodes := lo.Map(results.Moves, func(m metrics.MoveRecord, _ int) float64 {
		return math.Log10(float64(max(1, m.NodesExpanded)))
	})
	fmt.Println("log10(nodes expanded) per move:")
	return metrics.FprintHistogram(os.Stdout, nodes, 10, 50)
}
