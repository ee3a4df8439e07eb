package game

// Window scores by piece composition. A window holding pieces of both players is blocked and scores 0.
const (
	CenterWeight = 3
	WinScore     = 10000
	ThreeScore   = 1000
	TwoScore     = 100
	OneScore     = 10
)

var _ Evaluate = EvaluateBoard

// EvaluateBoard scores the board for player by rewarding center control and
// every open line of four, and penalizing the opponent's symmetrically. The
// result is antisymmetric: EvaluateBoard(b, p) == -EvaluateBoard(b, p.Opponent()).
func EvaluateBoard(b Board, player Player) int {
	opponent := player.Opponent()
	score := 0

	for row := 0; row < Rows; row++ {
		switch b[row][Center] {
		case player:
			score += CenterWeight
		case opponent:
			score -= CenterWeight
		}
	}

	// Horizontal
	for row := 0; row < Rows; row++ {
		for col := 0; col <= Cols-Connect; col++ {
			score += b.scoreWindow(row, col, 0, 1, player, opponent)
		}
	}
	// Vertical
	for row := 0; row <= Rows-Connect; row++ {
		for col := 0; col < Cols; col++ {
			score += b.scoreWindow(row, col, 1, 0, player, opponent)
		}
	}
	// Diagonal, down and to the right
	for row := 0; row <= Rows-Connect; row++ {
		for col := 0; col <= Cols-Connect; col++ {
			score += b.scoreWindow(row, col, 1, 1, player, opponent)
		}
	}
	// Diagonal, down and to the left
	for row := 0; row <= Rows-Connect; row++ {
		for col := Connect - 1; col < Cols; col++ {
			score += b.scoreWindow(row, col, 1, -1, player, opponent)
		}
	}

	return score
}

func (b *Board) scoreWindow(row, col, dr, dc int, player, opponent Player) int {
	own, other, empty := 0, 0, 0
	for i := 0; i < Connect; i++ {
		switch b[row+i*dr][col+i*dc] {
		case player:
			own++
		case opponent:
			other++
		default:
			empty++
		}
	}

	switch {
	case own > 0 && other > 0:
		return 0
	case own == 4:
		return WinScore
	case other == 4:
		return -WinScore
	case other == 3 && empty == 1:
		return -ThreeScore
	case own == 3 && empty == 1:
		return ThreeScore
	case other == 2 && empty == 2:
		return -TwoScore
	case own == 2 && empty == 2:
		return TwoScore
	case own == 1 && empty == 3:
		return OneScore
	case other == 1 && empty == 3:
		return -OneScore
	}
	return 0
}
