package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

type boardRequest struct {
	Board entity.Board `json:"board"`
	Mark  entity.Mark  `json:"mark"`
}

type moveResponse struct {
	Cell   int           `json:"cell"`
	Score  int           `json:"score"`
	Board  entity.Board  `json:"board"`
	Result entity.Result `json:"result"`
}

type evaluateResponse struct {
	Result entity.Result `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
}

func newHandlers(logger *slog.Logger) *handlers {
	return &handlers{
		logger: logger,
	}
}

func (that *handlers) Ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}

// Move picks the best cell for mark on the posted board and returns the board with it applied.
func (that *handlers) Move(ctx echo.Context) error {
	log := that.logger.With("method", "Move")

	var req boardRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if !req.Mark.IsPlayer() {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "mark must be X or O"})
	}

	move, err := tictactoe.Search(req.Board, req.Mark)
	if errors.Is(err, apperror.ErrGameFinished) || errors.Is(err, tictactoe.ErrNoAvailableMoves) {
		return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	if err != nil {
		log.Error("failed to search for a move", "board", req.Board.String(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}

	board := req.Board
	board.ApplyMove(move.Cell, req.Mark)

	return ctx.JSON(http.StatusOK, moveResponse{
		Cell:   move.Cell,
		Score:  move.Score,
		Board:  board,
		Result: entity.EvaluateTerminal(board, req.Mark),
	})
}

// Evaluate reports whether the posted board is won, drawn or still ongoing.
func (that *handlers) Evaluate(ctx echo.Context) error {
	var req boardRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	return ctx.JSON(http.StatusOK, evaluateResponse{
		Result: entity.EvaluateTerminal(req.Board, req.Mark),
	})
}
