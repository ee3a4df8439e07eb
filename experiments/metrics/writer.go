package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentConfig identifies one side of a matchup.
type AgentConfig struct {
	ID        int           `yaml:"id"`
	Algorithm string        `yaml:"algorithm"`
	Depth     int           `yaml:"depth"`
	TimeLimit time.Duration `yaml:"time_limit,omitempty"`
}

type GameRecord struct {
	ID     int
	Agent1 AgentConfig // Plays as player 1
	Agent2 AgentConfig // Plays as player 2
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// ThroughputRecord is the search work of one configuration over a set of positions.
type ThroughputRecord struct {
	Config        AgentConfig
	Positions     int
	NodesExpanded int64
	NodesPruned   int64
	Duration      time.Duration
}

// NodesPerSecond returns the expansion rate, or 0 when nothing was timed.
func (r ThroughputRecord) NodesPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.NodesExpanded) / r.Duration.Seconds()
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> and writes every file there.
func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSetup stores the experiment parameters as setup.yaml.
func (w *Writer) WriteSetup(setup any) error {
	data, err := yaml.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.yaml"), data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup file: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "algorithm", "depth", "time_limit"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Algorithm,
			strconv.Itoa(config.Depth),
			strconv.FormatFloat(config.TimeLimit.Seconds(), 'f', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{
		"game_id", "winner", "starting_player", "total_moves", "game_duration",
		"player1_algorithm", "player1_depth", "player2_algorithm", "player2_depth", "timestamp",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Winner),
			strconv.Itoa(record.StartingPlayer),
			strconv.Itoa(record.TotalMoves),
			seconds(record.Duration),
			record.Agent1.Algorithm,
			strconv.Itoa(record.Agent1.Depth),
			record.Agent2.Algorithm,
			strconv.Itoa(record.Agent2.Depth),
			record.EndTime.Format(time.RFC3339Nano),
		})
	}
	return w.writeCSV("game_data.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{
		"game_id", "move_number", "player", "column", "row", "algorithm", "depth",
		"nodes_expanded", "pruned_nodes", "decision_time", "board_state", "timestamp",
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			strconv.Itoa(record.Column),
			strconv.Itoa(record.Row),
			record.Algorithm,
			strconv.Itoa(record.Depth),
			strconv.FormatInt(record.NodesExpanded, 10),
			strconv.FormatInt(record.NodesPruned, 10),
			seconds(record.Duration),
			record.Board,
			record.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return w.writeCSV("move_data.csv", header, rows)
}

func (w *Writer) WriteThroughput(records []ThroughputRecord) error {
	header := []string{"agent", "algorithm", "depth", "positions", "nodes_expanded", "pruned_nodes", "duration", "nodes_per_second"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Config.ID),
			record.Config.Algorithm,
			strconv.Itoa(record.Config.Depth),
			strconv.Itoa(record.Positions),
			strconv.FormatInt(record.NodesExpanded, 10),
			strconv.FormatInt(record.NodesPruned, 10),
			seconds(record.Duration),
			strconv.FormatFloat(record.NodesPerSecond(), 'f', 1, 64),
		})
	}
	return w.writeCSV("throughput.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}
