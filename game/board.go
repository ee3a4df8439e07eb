package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Board is a Connect Four grid indexed as [row][col], row 0 being the top.
// Boards are values: assigning or passing one copies every cell, so a board
// handed to a recursive call is never observed by its siblings.
type Board [Rows][Cols]Player

// axes are the four independent line directions: horizontal, vertical, and both diagonals.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func NewBoard() Board {
	return Board{}
}

// ValidMoves returns the playable columns from left to right.
func (b *Board) ValidMoves() []int {
	return lo.Filter(lo.Range(Cols), func(col int, _ int) bool {
		return b[0][col] == Empty
	})
}

// DropRow returns the lowest empty row of col, or NoRow if the column is full or out of range.
func (b *Board) DropRow(col int) int {
	if col < 0 || col >= Cols {
		return NoRow
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][col] == Empty {
			return row
		}
	}
	return NoRow
}

// Play drops a piece for player into col and returns the landing row and the resulting board.
// The receiver is left untouched.
func (b Board) Play(col int, player Player) (int, Board, error) {
	if !player.Valid() {
		return NoRow, b, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	row := b.DropRow(col)
	if row == NoRow {
		return NoRow, b, fmt.Errorf("%w: column %d", ErrInvalidMove, col)
	}
	b[row][col] = player
	return row, b, nil
}

// CheckWin reports whether the piece of player at (row, col) is part of a line of at least four.
func (b *Board) CheckWin(row, col int, player Player) bool {
	if !inBounds(row, col) {
		return false
	}
	for _, axis := range axes {
		count := 1 + b.run(row, col, axis[0], axis[1], player) + b.run(row, col, -axis[0], -axis[1], player)
		if count >= Connect {
			return true
		}
	}
	return false
}

// run counts contiguous pieces of player starting next to (row, col) in direction (dr, dc).
func (b *Board) run(row, col, dr, dc int, player Player) int {
	count := 0
	for r, c := row+dr, col+dc; inBounds(r, c) && b[r][c] == player; r, c = r+dr, c+dc {
		count++
	}
	return count
}

// IsFull reports whether every column is full.
func (b *Board) IsFull() bool {
	for col := 0; col < Cols; col++ {
		if b[0][col] == Empty {
			return false
		}
	}
	return true
}

// Terminal reports whether the game is over. The winner is Empty for a draw
// or when the game is still going. A line of four takes precedence over a
// full board.
func (b *Board) Terminal() (bool, Player) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if cell := b[row][col]; cell != Empty && b.CheckWin(row, col, cell) {
				return true, cell
			}
		}
	}
	if b.IsFull() {
		return true, Empty
	}
	return false, Empty
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int {
	n := 0
	for row := range b {
		for _, cell := range b[row] {
			if cell != Empty {
				n++
			}
		}
	}
	return n
}

func (b Board) String() string {
	var sb strings.Builder
	for row := range b {
		for col, cell := range b[row] {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("0 1 2 3 4 5 6")
	return sb.String()
}

func (b Board) MarshalJSON() ([]byte, error) {
	grid := make([][]int, Rows)
	for row := range b {
		grid[row] = make([]int, Cols)
		for col, cell := range b[row] {
			grid[row][col] = int(cell)
		}
	}
	return json.Marshal(grid)
}

// UnmarshalJSON decodes a 6x7 array of 0/1/2 cells. Pieces must obey gravity.
func (b *Board) UnmarshalJSON(data []byte) error {
	var grid [][]int
	if err := json.Unmarshal(data, &grid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if len(grid) != Rows {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(grid))
	}
	var decoded Board
	for row, cells := range grid {
		if len(cells) != Cols {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidBoard, row, len(cells), Cols)
		}
		for col, cell := range cells {
			p := Player(cell)
			if p != Empty && !p.Valid() {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidBoard, row, col, cell)
			}
			decoded[row][col] = p
		}
	}
	for col := 0; col < Cols; col++ {
		for row := 1; row < Rows; row++ {
			if decoded[row-1][col] != Empty && decoded[row][col] == Empty {
				return fmt.Errorf("%w: floating piece at (%d,%d)", ErrInvalidBoard, row-1, col)
			}
		}
	}
	*b = decoded
	return nil
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}
