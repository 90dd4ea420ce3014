package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNoActiveGame    = errors.New("no active game")
	ErrNotComputerTurn = errors.New("it's not the computer's turn")
)
