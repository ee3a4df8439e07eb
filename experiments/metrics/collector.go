package metrics

import (
	"sync"
	"time"
)

// MoveMetric describes one move of a self-play game.
type MoveMetric struct {
	Step          int // 1-based move number
	Player        int // Player ID
	Column        int
	Row           int
	Algorithm     string
	Depth         int // Configured depth
	NodesExpanded int64
	NodesPruned   int64
	Duration      time.Duration
	Board         string // JSON encoding of the board after the move
	Timestamp     time.Time
}

type GameMetric struct {
	StartingPlayer int // Player ID
	Winner         int // Player ID, 0 for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Summary is a point-in-time view of an Aggregator.
type Summary struct {
	GamesPlayed          int     `json:"games_played"`
	AIWins               int     `json:"ai_wins"`
	HumanWins            int     `json:"human_wins"`
	Draws                int     `json:"draws"`
	WinRate              float64 `json:"win_rate"`
	AverageNodesExpanded float64 `json:"average_nodes_expanded"`
	AverageDecisionTime  float64 `json:"average_decision_time"` // Seconds
	AveragePrunedNodes   float64 `json:"average_pruned_nodes"`
	TotalMoves           int     `json:"total_moves"`
}

// Aggregator keeps running totals over the moves and games played against the AI.
// It is safe for concurrent use.
type Aggregator struct {
	aiPlayer int

	mu        sync.Mutex
	games     int
	aiWins    int
	humanWins int
	draws     int
	moves     int
	nodes     int64
	pruned    int64
	decision  time.Duration
}

// NewAggregator returns an empty aggregator that credits wins by aiPlayer to the AI.
func NewAggregator(aiPlayer int) *Aggregator {
	return &Aggregator{aiPlayer: aiPlayer}
}

func (a *Aggregator) RecordMove(nodes, pruned int64, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moves++
	a.nodes += nodes
	a.pruned += pruned
	a.decision += d
}

// RecordGame counts a finished game. Any winner other than the two players is a draw.
func (a *Aggregator) RecordGame(winner int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.games++
	switch winner {
	case a.aiPlayer:
		a.aiWins++
	case 3 - a.aiPlayer:
		a.humanWins++
	default:
		a.draws++
	}
}

func (a *Aggregator) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		GamesPlayed: a.games,
		AIWins:      a.aiWins,
		HumanWins:   a.humanWins,
		Draws:       a.draws,
		TotalMoves:  a.moves,
	}
	if a.games > 0 {
		s.WinRate = float64(a.aiWins) / float64(a.games)
	}
	if a.moves > 0 {
		n := float64(a.moves)
		s.AverageNodesExpanded = float64(a.nodes) / n
		s.AveragePrunedNodes = float64(a.pruned) / n
		s.AverageDecisionTime = a.decision.Seconds() / n
	}
	return s
}

func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.games, a.aiWins, a.humanWins, a.draws, a.moves = 0, 0, 0, 0, 0
	a.nodes, a.pruned, a.decision = 0, 0, 0
}
