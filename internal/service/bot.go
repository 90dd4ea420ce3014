package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(game *entity.Game) (int, error)
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// MakeTurn plays the computer's mark on the game with a full game-tree search
// and returns the chosen cell.
func (that *botService) MakeTurn(game *entity.Game) (int, error) {
	if !game.ComputerMark.IsPlayer() {
		return -1, fmt.Errorf("%w: game %s", ErrBotNotFound, game.ID)
	}

	move, err := tictactoe.Search(game.Board, game.ComputerMark)
	if err != nil {
		return -1, fmt.Errorf("failed to search for a move: %w", err)
	}

	if err = tictactoe.MakeTurn(game, game.ComputerMark, move.Cell); err != nil {
		return -1, fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot made turn",
		"gameID", game.ID,
		"board", game.Board.String(),
		"cell", move.Cell,
		"score", move.Score,
	)

	return move.Cell, nil
}
