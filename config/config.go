// Package config layers defaults, an optional YAML file and CONNECT4_*
// environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"connect4/meta"

	"github.com/spf13/viper"
)

type Server struct {
	Addr     string
	AIPlayer int
}

type Search struct {
	Algorithm string
	Depth     int
	TimeLimit time.Duration
}

type SelfPlay struct {
	Games       int
	Algorithms  []string
	Depths      []int
	Concurrency int
	Seed        uint64
	OutDir      string
}

type Config struct {
	Debug    bool
	Server   Server
	Search   Search
	SelfPlay SelfPlay
}

// Load reads the configuration. An empty path skips the file.
// Environment variables override the file, e.g. CONNECT4_SEARCH_DEPTH=7;
// list values are separated by spaces or commas.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("debug", false)
	v.SetDefault("server.addr", meta.ADDR)
	v.SetDefault("server.ai_player", meta.AI_PLAYER)
	v.SetDefault("search.algorithm", meta.ALGORITHM)
	v.SetDefault("search.depth", meta.DEPTH)
	v.SetDefault("search.time_limit", meta.TIME_LIMIT)
	v.SetDefault("selfplay.games", meta.GAMES)
	v.SetDefault("selfplay.algorithms", meta.SELFPLAY_ALGORITHMS)
	v.SetDefault("selfplay.depths", meta.SELFPLAY_DEPTHS)
	v.SetDefault("selfplay.concurrency", meta.CONCURRENCY)
	v.SetDefault("selfplay.seed", 0)
	v.SetDefault("selfplay.out_dir", meta.OUT_DIR)

	v.SetEnvPrefix("connect4")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	depths, err := intSlice(v, "selfplay.depths")
	if err != nil {
		return Config{}, err
	}

	return Config{
		Debug: v.GetBool("debug"),
		Server: Server{
			Addr:     v.GetString("server.addr"),
			AIPlayer: v.GetInt("server.ai_player"),
		},
		Search: Search{
			Algorithm: v.GetString("search.algorithm"),
			Depth:     v.GetInt("search.depth"),
			TimeLimit: v.GetDuration("search.time_limit"),
		},
		SelfPlay: SelfPlay{
			Games:       v.GetInt("selfplay.games"),
			Algorithms:  stringSlice(v, "selfplay.algorithms"),
			Depths:      depths,
			Concurrency: v.GetInt("selfplay.concurrency"),
			Seed:        v.GetUint64("selfplay.seed"),
			OutDir:      v.GetString("selfplay.out_dir"),
		},
	}, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func stringSlice(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return splitList(s)
	}
	return v.GetStringSlice(key)
}

func intSlice(v *viper.Viper, key string) ([]int, error) {
	s, ok := v.Get(key).(string)
	if !ok {
		return v.GetIntSlice(key), nil
	}
	fields := splitList(s)
	ints := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		ints = append(ints, n)
	}
	return ints, nil
}
