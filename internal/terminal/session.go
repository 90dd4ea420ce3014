package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

var errQuit = errors.New("player quit")

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

// Session is a game played at one terminal, either against the computer or hot-seat.
// The round tally lives as long as the session.
type Session struct {
	logger *slog.Logger
	input  *bufio.Scanner
	render *Renderer
	bot    botService

	game   *entity.Game
	player *entity.Player
}

func NewSession(logger *slog.Logger, in io.Reader, out *termenv.Output, bot botService, gameType string) (*Session, error) {
	if err := entity.ValidateGameType(gameType); err != nil {
		return nil, err
	}

	game := entity.NewGame("terminal", gameType)
	player := &entity.Player{ID: "terminal", GameID: game.ID}

	if game.IsWithBot() {
		player.Mark = entity.PlayerX
		game.ComputerMark = entity.PlayerO
	}

	game.Players = []*entity.Player{player}

	return &Session{
		logger: logger.With("component", "terminal"),
		input:  bufio.NewScanner(in),
		render: NewRenderer(out),
		bot:    bot,
		game:   game,
		player: player,
	}, nil
}

// Run plays rounds until the player quits, declines another round, input ends or ctx is done.
func (that *Session) Run(ctx context.Context) error {
	for {
		err := that.playRound(ctx)
		if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
			that.render.Notice("Bye.")
			return nil
		}

		if err != nil {
			return err
		}

		that.render.Score(that.game.Score)

		again, err := that.askPlayAgain()
		if err != nil || !again {
			that.render.Notice("Bye.")
			return nil
		}

		that.game.Reset()
	}
}

func (that *Session) playRound(ctx context.Context) error {
	for that.game.IsOngoing() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if that.game.IsComputerTurn() {
			cell, err := that.bot.MakeTurn(that.game)
			if err != nil {
				return fmt.Errorf("failed to make computer turn: %w", err)
			}

			that.render.Notice("Computer plays %d", cell+1)
			continue
		}

		that.render.Board(that.game.Board, nil)
		that.render.Prompt("%s to move (1-9, q to quit): ", that.game.Turn)

		line, err := that.readLine()
		if err != nil {
			return err
		}

		if line == "q" {
			return errQuit
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			that.render.Notice("Enter a number from 1 to 9.")
			continue
		}

		err = tictactoe.MakeTurn(that.game, that.game.PlayerMark(that.player), n-1)
		switch {
		case errors.Is(err, entity.ErrInvalidCell):
			that.render.Notice("Enter a number from 1 to 9.")
		case errors.Is(err, apperror.ErrCellOccupied):
			that.render.Notice("Cell %d is already taken.", n)
		case err != nil:
			return fmt.Errorf("failed to make turn: %w", err)
		}
	}

	result := entity.EvaluateTerminal(that.game.Board, entity.EmptyCell)

	that.render.Board(that.game.Board, that.game.WinLine)
	that.render.Result(result, that.game.ComputerMark)

	that.logger.Debug("round finished", "board", that.game.Board.String(), "outcome", result.Outcome)

	return nil
}

func (that *Session) askPlayAgain() (bool, error) {
	for {
		that.render.Prompt("Play again? [y/n]: ")

		line, err := that.readLine()
		if err != nil {
			return false, err
		}

		switch line {
		case "y", "yes":
			return true, nil
		case "n", "no", "q":
			return false, nil
		}
	}
}

// readLine returns the next trimmed, lower-cased line. End of input counts as quitting.
func (that *Session) readLine() (string, error) {
	if !that.input.Scan() {
		if err := that.input.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		return "", errQuit
	}

	return strings.ToLower(strings.TrimSpace(that.input.Text())), nil
}
