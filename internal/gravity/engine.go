package gravity

import (
	"github.com/dropfourhq/dropfour-backend/internal/apperror"
	"github.com/dropfourhq/dropfour-backend/internal/entity"
)

// axes win detection scans through the anchor cell, in the order a win
// is reported: horizontal, vertical, diagonal down-right, diagonal down-left.
var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Drop places mark into the lowest empty cell of column. A rejected drop
// leaves the game untouched: the turn does not flip and the board does
// not change.
func Drop(gameInstance *entity.Game, mark string, column int) error {
	if gameInstance.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateDrop(gameInstance, mark, column); err != nil {
		return err
	}

	row := landingRow(gameInstance.Board, column)
	if row < 0 {
		return apperror.ErrColumnFull
	}

	gameInstance.Board[row][column] = mark
	// recounted from the board rather than incremented, so the counter
	// can never drift from the cells.
	gameInstance.MoveCount = countMarks(gameInstance.Board)

	updateGameStatus(gameInstance, row, column, mark)

	return nil
}

// WinsNext reports whether dropping mark into column would end the game
// with a win for mark. The game itself is left untouched.
func WinsNext(gameInstance *entity.Game, mark string, column int) bool {
	row := landingRow(gameInstance.Board, column)
	if row < 0 {
		return false
	}

	board := cloneBoard(gameInstance.Board)
	board[row][column] = mark

	return winningLine(board, row, column, gameInstance.WinLength) != nil
}

// ValidColumns returns every column that still has room, in scan order.
func ValidColumns(gameInstance *entity.Game) []int {
	columns := make([]int, 0, gameInstance.Columns)
	for col := 0; col < gameInstance.Columns; col++ {
		if gameInstance.Board[0][col] == entity.EmptyCell {
			columns = append(columns, col)
		}
	}

	return columns
}

// validateDrop - checks if the move is valid.
func validateDrop(gameInstance *entity.Game, mark string, column int) error {
	if column < 0 || column >= gameInstance.Columns {
		return apperror.ErrInvalidColumn
	}

	if gameInstance.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// updateGameStatus - checks the game status after a placement.
func updateGameStatus(gameInstance *entity.Game, row, column int, mark string) {
	if line := winningLine(gameInstance.Board, row, column, gameInstance.WinLength); line != nil {
		gameInstance.Winner = mark
		gameInstance.Status = entity.StatusFinished
		gameInstance.WinningLine = line
		gameInstance.Turn = ""

		return
	}

	if gameInstance.MoveCount == gameInstance.Rows*gameInstance.Columns {
		gameInstance.Winner = entity.PlayerTie
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = ""

		return
	}

	// the first successful drop also promotes a waiting game to ongoing
	gameInstance.Status = entity.StatusOngoing
	gameInstance.Turn = entity.OpposingMark(mark)
}

// landingRow returns the row gravity assigns to a drop in column,
// or -1 when the column is full.
func landingRow(board [][]string, column int) int {
	for row := len(board) - 1; row >= 0; row-- {
		if board[row][column] == entity.EmptyCell {
			return row
		}
	}

	return -1
}

// winningLine checks the lines passing through the just-filled cell
// instead of scanning the whole board. It returns the first winLength
// contiguous cells of the first completed axis, or nil.
func winningLine(board [][]string, row, column, winLength int) []entity.Cell {
	mark := board[row][column]
	if mark == entity.EmptyCell {
		return nil
	}

	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		// walk back to the start of the run through the anchor
		r, c := row, column
		for inBounds(board, r-dr, c-dc) && board[r-dr][c-dc] == mark {
			r -= dr
			c -= dc
		}

		length := 0
		for fr, fc := r, c; inBounds(board, fr, fc) && board[fr][fc] == mark; fr, fc = fr+dr, fc+dc {
			length++
		}

		if length < winLength {
			continue
		}

		line := make([]entity.Cell, winLength)
		for i := range line {
			line[i] = entity.Cell{Row: r + i*dr, Col: c + i*dc}
		}

		return line
	}

	return nil
}

func inBounds(board [][]string, row, column int) bool {
	return row >= 0 && row < len(board) && column >= 0 && column < len(board[0])
}

func countMarks(board [][]string) int {
	count := 0
	for _, row := range board {
		for _, cell := range row {
			if cell != entity.EmptyCell {
				count++
			}
		}
	}

	return count
}

func cloneBoard(board [][]string) [][]string {
	cloned := make([][]string, len(board))
	for i, row := range board {
		cloned[i] = make([]string, len(row))
		copy(cloned[i], row)
	}

	return cloned
}
