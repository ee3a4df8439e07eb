package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"connect4/agent"
	"connect4/communication/server"
	"connect4/config"
	"connect4/experiments"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: connect4 <command> [flags]

commands:
  serve     run the move server
  selfplay  play AI against AI and store game and move data
  move      print the move chosen for a board
  bench     measure search throughput on random positions
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(os.Args[2:])
	case "selfplay":
		err = selfplay(os.Args[2:])
	case "move":
		err = move(os.Args[2:])
	case "bench":
		err = bench(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", os.Args[1])
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Debug().Msg("debug logging is on")
}

func loadConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	path := fs.String("config", "", "YAML configuration file")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(*path)
	if err != nil {
		return cfg, err
	}
	cfg.Debug = cfg.Debug || *debug
	setupLogger(cfg.Debug)
	return cfg, nil
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overrides the configuration")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	algorithm, err := agent.ParseAlgorithm(cfg.Search.Algorithm)
	if err != nil {
		return err
	}
	if _, err := game.ParsePlayer(cfg.Server.AIPlayer); err != nil {
		return err
	}

	s := server.New(server.Defaults{
		Player:    cfg.Server.AIPlayer,
		Algorithm: algorithm,
		Depth:     cfg.Search.Depth,
		TimeLimit: cfg.Search.TimeLimit,
	}, metrics.NewAggregator(cfg.Server.AIPlayer))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx, cfg.Server.Addr)
}

func selfplay(args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 0, "number of games, overrides the configuration")
	out := fs.String("out", "", "output directory, overrides the configuration")
	seed := fs.Uint64("seed", 0, "random seed, overrides the configuration")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *games > 0 {
		cfg.SelfPlay.Games = *games
	}
	if *out != "" {
		cfg.SelfPlay.OutDir = *out
	}
	if *seed != 0 {
		cfg.SelfPlay.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := experiments.Run(ctx, experiments.Setup{
		Name:        "selfplay",
		Games:       cfg.SelfPlay.Games,
		Algorithms:  cfg.SelfPlay.Algorithms,
		Depths:      cfg.SelfPlay.Depths,
		TimeLimit:   cfg.Search.TimeLimit,
		Concurrency: cfg.SelfPlay.Concurrency,
		Seed:        cfg.SelfPlay.Seed,
	}, cfg.SelfPlay.OutDir)
	if err != nil {
		return err
	}
	log.Info().Msgf("results stored in %s", dir)
	return nil
}

func move(args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	boardJSON := fs.String("board", "", "board as a JSON array of 6 rows of 7 cells (0 empty, 1 or 2)")
	player := fs.Int("player", 0, "player to move, defaults to the configured AI player")
	algorithm := fs.String("algorithm", "", "minimax, minimax_ab, iterative or random")
	depth := fs.Int("depth", 0, "search depth")
	timeLimit := fs.Duration("time-limit", 0, "iterative deepening budget")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	b := game.NewBoard()
	if *boardJSON != "" {
		if err := json.Unmarshal([]byte(*boardJSON), &b); err != nil {
			return err
		}
	}
	if *player == 0 {
		*player = cfg.Server.AIPlayer
	}
	p, err := game.ParsePlayer(*player)
	if err != nil {
		return err
	}
	if *algorithm == "" {
		*algorithm = cfg.Search.Algorithm
	}
	a, err := agent.ParseAlgorithm(*algorithm)
	if err != nil {
		return err
	}
	if *depth == 0 {
		*depth = cfg.Search.Depth
	}
	if *timeLimit == 0 {
		*timeLimit = cfg.Search.TimeLimit
	}

	searcher, err := agent.New(agent.Config{Algorithm: a, Depth: *depth, TimeLimit: *timeLimit})
	if err != nil {
		return err
	}
	d, err := searcher.FindMove(context.Background(), b, p)
	if err != nil {
		return err
	}

	fmt.Print(b)
	if d.Move == game.NoMove {
		fmt.Println("no legal move")
		return nil
	}
	fmt.Printf("move: %d value: %d nodes: %d pruned: %d depth: %d time: %v\n",
		d.Move, d.Value, d.NodesExpanded, d.NodesPruned, d.Depth, d.Duration)
	return nil
}

func bench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	positions := fs.Int("positions", 20, "number of random positions")
	plies := fs.Int("plies", 8, "random moves played to reach each position")
	depths := fs.String("depths", "2,4,6", "comma separated search depths")
	algorithms := fs.String("algorithms", "minimax,minimax_ab,iterative", "comma separated algorithms")
	seed := fs.Uint64("seed", 1, "random seed for the positions")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	ds := []int{}
	for _, f := range strings.Split(*depths, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return fmt.Errorf("depths: %w", err)
		}
		ds = append(ds, d)
	}
	configs, err := experiments.Configs(strings.Split(*algorithms, ","), ds, cfg.Search.TimeLimit)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, err := experiments.RunThroughputExperiment(ctx, "throughput", configs,
		experiments.RandomPositions(*positions, *plies, *seed), cfg.SelfPlay.OutDir)
	if err != nil {
		return err
	}
	log.Info().Msgf("results stored in %s", dir)
	return nil
}
