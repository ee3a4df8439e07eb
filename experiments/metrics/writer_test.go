package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	is := is.New(t)
	f, err := os.Open(path)
	is.NoErr(err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	is.NoErr(err)
	return rows
}

func TestWriter(t *testing.T) {
	is := is.New(t)
	w, err := NewWriter(t.TempDir(), "selfplay")
	is.NoErr(err)

	agent1 := AgentConfig{ID: 1, Algorithm: "minimax", Depth: 3}
	agent2 := AgentConfig{ID: 2, Algorithm: "iterative", Depth: 5, TimeLimit: 5 * time.Second}
	end := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	is.NoErr(w.WriteAgentConfigs([]AgentConfig{agent1, agent2}))
	is.NoErr(w.WriteGameRecords([]GameRecord{{
		ID:         0,
		Agent1:     agent1,
		Agent2:     agent2,
		GameMetric: GameMetric{StartingPlayer: 2, Winner: 1, TotalMoves: 9, Duration: 1500 * time.Millisecond, EndTime: end},
	}}))
	is.NoErr(w.WriteMoveRecords([]MoveRecord{{
		Game: 0,
		MoveMetric: MoveMetric{
			Step: 1, Player: 2, Column: 3, Row: 5, Algorithm: "iterative", Depth: 5,
			NodesExpanded: 42, NodesPruned: 7, Duration: time.Millisecond,
			Board: "[[0,0],[0,2]]", Timestamp: end,
		},
	}}))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	is.Equal(len(configs), 3)
	is.Equal(configs[2], []string{"2", "iterative", "5", "5"})

	games := readCSV(t, filepath.Join(w.Dir(), "game_data.csv"))
	is.Equal(len(games), 2)
	is.Equal(games[0][0], "game_id")
	is.Equal(games[1], []string{"0", "1", "2", "9", "1.500000", "minimax", "3", "iterative", "5", "2024-01-02T03:04:05Z"})

	moves := readCSV(t, filepath.Join(w.Dir(), "move_data.csv"))
	is.Equal(len(moves), 2)
	is.Equal(len(moves[0]), 12)
	is.Equal(moves[1][7], "42")
	is.Equal(moves[1][10], "[[0,0],[0,2]]") // board JSON survives quoting
}

func TestWriterSetup(t *testing.T) {
	is := is.New(t)
	root := t.TempDir()
	w, err := NewWriter(root, "selfplay")
	is.NoErr(err)
	is.True(strings.HasPrefix(w.Dir(), filepath.Join(root, "selfplay")))

	setup := struct {
		Games  int      `yaml:"games"`
		Depths []int    `yaml:"depths"`
		Names  []string `yaml:"names"`
	}{Games: 4, Depths: []int{3, 5}, Names: []string{"minimax"}}
	is.NoErr(w.WriteSetup(setup))

	data, err := os.ReadFile(filepath.Join(w.Dir(), "setup.yaml"))
	is.NoErr(err)

	var decoded map[string]any
	is.NoErr(yaml.Unmarshal(data, &decoded))
	is.Equal(decoded["games"], 4)
}
