package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/dropfourhq/dropfour-backend/internal/apperror"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const (
	PublicType  = "public"
	PrivateType = "private"
	WithBotType = "bot"
)

const minWinLength = 2

// Cell is a single board coordinate, rows counted from the top.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Game is one gravity board session. The board is owned by exactly one
// session and is only ever mutated through the gravity package; callers
// hosting concurrent connections serialize access themselves.
type Game struct {
	ID          string     `json:"id"`
	Rows        int        `json:"rows"`
	Columns     int        `json:"columns"`
	WinLength   int        `json:"win_length"`
	Board       [][]string `json:"board"`
	Winner      string     `json:"winner,omitempty"`
	Status      string     `json:"status"`
	Turn        string     `json:"player_turn"`
	MoveCount   int        `json:"move_count"`
	WinningLine []Cell     `json:"winning_line,omitempty"`
	BotSkill    float64    `json:"bot_skill,omitempty"`
	Players     []*Player  `json:"players,omitempty"`
	Type        string     `json:"type,omitempty"`
}

func NewGame(id, gameType string, rows, columns, winLength int) *Game {
	// winLength is clamped so diagonals stay meaningful on any geometry.
	if winLength < minWinLength {
		winLength = minWinLength
	}
	if winLength > rows {
		winLength = rows
	}
	if winLength > columns {
		winLength = columns
	}

	board := make([][]string, rows)
	for i := range board {
		board[i] = make([]string, columns)
	}

	return &Game{
		ID:        id,
		Rows:      rows,
		Columns:   columns,
		WinLength: winLength,
		Board:     board,
		Turn:      PlayerX,
		Status:    StatusWaiting,
		Type:      gameType,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsDraw() bool {
	return that.IsFinished() && that.Winner == PlayerTie
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}

// OpposingMark returns the mark of the other seat.
func OpposingMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
