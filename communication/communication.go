// Package communication holds the JSON messages exchanged between the move
// server and its clients.
package communication

import "connect4/game"

const (
	MovePath         = "/api/move"
	MetricsPath      = "/api/metrics"
	MetricsResetPath = "/api/metrics/reset"
	GameEndPath      = "/api/game/end"
	HealthPath       = "/api/ping"
)

// MoveRequest asks the server for a move. Omitted fields take the server's defaults.
type MoveRequest struct {
	Board     *game.Board `json:"board"`
	Player    *int        `json:"player,omitempty"`
	Algorithm *string     `json:"algorithm,omitempty"`
	Depth     *int        `json:"depth,omitempty"`
	TimeLimit *float64    `json:"time_limit,omitempty"` // Seconds
}

type MoveResponse struct {
	Move          *int    `json:"move"` // null when the board has no legal move
	Value         int     `json:"value"`
	NodesExpanded int64   `json:"nodes_expanded"`
	PrunedNodes   int64   `json:"pruned_nodes"`
	DecisionTime  float64 `json:"decision_time"` // Seconds
	Depth         int     `json:"depth"`
}

type GameEndRequest struct {
	Winner int `json:"winner"` // 0 for a draw
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
