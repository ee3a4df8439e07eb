// meta/meta.go
package meta

import "time"

// DEPTH is the default search depth.
const DEPTH = 5

// TIME_LIMIT is the default per-move budget of iterative deepening.
const TIME_LIMIT = 5 * time.Second

// ALGORITHM is the default search algorithm.
const ALGORITHM = "minimax_ab"

// AI_PLAYER is the player the move server plays as unless a request says otherwise.
const AI_PLAYER = 2

// ADDR is the default listen address of the move server.
const ADDR = "127.0.0.1:5001"

// GAMES is the default number of self-play games.
const GAMES = 200

// CONCURRENCY bounds the number of self-play games in flight.
const CONCURRENCY = 4

// OUT_DIR is where experiment results are written.
const OUT_DIR = "data"

// SELFPLAY_ALGORITHMS and SELFPLAY_DEPTHS span the self-play matchups.
var SELFPLAY_ALGORITHMS = []string{"minimax", "minimax_ab", "iterative"}
var SELFPLAY_DEPTHS = []int{3, 5, 7}
