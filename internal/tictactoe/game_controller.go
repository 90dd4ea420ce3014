package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// MakeTurn validates and applies a move of mark to the game, then settles the round state.
// A rejected move leaves the game untouched.
func MakeTurn(game *entity.Game, mark entity.Mark, cell int) error {
	if game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(game, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board.ApplyMove(cell, mark)
	game.UpdateGameState(mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, mark entity.Mark, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", entity.ErrInvalidCell, cell)
	}

	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidMark, mark)
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}
