package tictactoe

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// WinBase is the score of an immediate win. It must stay above the deepest search (9 plies)
// so that every win outranks every draw.
const WinBase = 10

var ErrNoAvailableMoves = errors.New("no available moves")

// Move is the outcome of a search: the chosen cell and its minimax score.
type Move struct {
	Cell  int
	Score int
}

// BestMove returns the cell the computer should play on board.
func BestMove(board entity.Board, computer entity.Mark) (int, error) {
	move, err := Search(board, computer)
	if err != nil {
		return -1, err
	}

	return move.Cell, nil
}

// Search explores the full game tree below board with computer to move and returns the
// empty cell with the highest score, assuming the opponent always answers with the lowest.
// A win scores WinBase minus the plies it takes, a loss the plies minus WinBase, a draw zero,
// so faster wins and slower losses are preferred. Ties go to the lowest cell index.
//
// The board is passed by value and never modified.
func Search(board entity.Board, computer entity.Mark) (Move, error) {
	if !computer.IsPlayer() {
		return Move{Cell: -1}, fmt.Errorf("%w: %q", entity.ErrInvalidMark, computer)
	}

	if board.IsWinning(entity.PlayerX) || board.IsWinning(entity.PlayerO) {
		return Move{Cell: -1}, apperror.ErrGameFinished
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return Move{Cell: -1}, ErrNoAvailableMoves
	}

	s := newSearcher(computer)
	best := Move{Cell: -1, Score: math.MinInt}

	for _, cell := range cells {
		next := board
		next.ApplyMove(cell, computer)

		if score := s.minimax(next, 0, false); score > best.Score {
			best = Move{Cell: cell, Score: score}
		}
	}

	return best, nil
}

// searcher holds the state of one Search call. Within a call a board position fixes both its
// depth and the side to move, so scores can be cached by board alone.
type searcher struct {
	computer entity.Mark
	opponent entity.Mark

	cache map[entity.Board]int
}

func newSearcher(computer entity.Mark) *searcher {
	return &searcher{
		computer: computer,
		opponent: computer.Opponent(),
		cache:    make(map[entity.Board]int),
	}
}

func (that *searcher) minimax(board entity.Board, depth int, maximizing bool) int {
	if score, ok := that.cache[board]; ok {
		return score
	}

	score := that.evaluate(board, depth, maximizing)
	that.cache[board] = score

	return score
}

func (that *searcher) evaluate(board entity.Board, depth int, maximizing bool) int {
	switch {
	case board.IsWinning(that.computer):
		return WinBase - depth
	case board.IsWinning(that.opponent):
		return depth - WinBase
	case board.IsFull():
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, cell := range board.EmptyCells() {
			next := board
			next.ApplyMove(cell, that.computer)
			best = max(best, that.minimax(next, depth+1, false))
		}

		return best
	}

	best := math.MaxInt
	for _, cell := range board.EmptyCells() {
		next := board
		next.ApplyMove(cell, that.opponent)
		best = min(best, that.minimax(next, depth+1, true))
	}

	return best
}
