package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidColumn    = errors.New("invalid column index")
	ErrColumnFull       = errors.New("column is full")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrGameAlreadyFull  = errors.New("game already has two players")
)
