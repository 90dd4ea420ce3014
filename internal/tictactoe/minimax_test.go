package tictactoe

import (
	"math"
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseBoard reads rows separated by '/', with '.' for an empty cell.
func parseBoard(t *testing.T, layout string) entity.Board {
	t.Helper()

	var board entity.Board
	i := 0
	for _, r := range layout {
		switch r {
		case '/':
			continue
		case '.':
			board[i] = entity.EmptyCell
		case 'X':
			board[i] = entity.PlayerX
		case 'O':
			board[i] = entity.PlayerO
		default:
			t.Fatalf("unexpected rune %q in layout %q", r, layout)
		}
		i++
	}

	require.Equal(t, len(board), i, "layout %q must describe 9 cells", layout)

	return board
}

// referenceScore is a plain mutate-and-revert minimax without caching, used to cross-check Search.
func referenceScore(board *entity.Board, computer entity.Mark, depth int, maximizing bool) int {
	switch {
	case board.IsWinning(computer):
		return WinBase - depth
	case board.IsWinning(computer.Opponent()):
		return depth - WinBase
	case board.IsFull():
		return 0
	}

	best := math.MaxInt
	mark := computer.Opponent()
	if maximizing {
		best = math.MinInt
		mark = computer
	}

	for cell := range board {
		if board[cell] != entity.EmptyCell {
			continue
		}

		board[cell] = mark
		score := referenceScore(board, computer, depth+1, !maximizing)
		board[cell] = entity.EmptyCell

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}

func TestBestMove_ImmediateWin(t *testing.T) {
	t.Run("Completes its own line", func(t *testing.T) {
		// Given: O has two in the top row and the third cell is free
		board := parseBoard(t, "OO./XX./..X")

		// When: the computer playing O picks a move
		move, err := Search(board, entity.PlayerO)

		// Then: it wins right away
		require.NoError(t, err)
		assert.Equal(t, 2, move.Cell)
		assert.Equal(t, WinBase, move.Score)
	})

	t.Run("Prefers winning over blocking", func(t *testing.T) {
		// Given: X threatens cell 2 while O can complete the middle row at cell 5
		board := parseBoard(t, "XX./OO./X..")

		// When: the computer playing O picks a move
		cell, err := BestMove(board, entity.PlayerO)

		// Then: it takes the win instead of the block
		require.NoError(t, err)
		assert.Equal(t, 5, cell)
	})

	t.Run("Works when the computer holds X", func(t *testing.T) {
		// Given: X has two on the diagonal and it is X's move
		board := parseBoard(t, "XO./OX./...")

		// When: the computer playing X picks a move
		cell, err := BestMove(board, entity.PlayerX)

		// Then: it completes the diagonal
		require.NoError(t, err)
		assert.Equal(t, 8, cell)
	})
}

func TestBestMove_ImmediateBlock(t *testing.T) {
	t.Run("Blocks a row", func(t *testing.T) {
		// Given: X threatens the top row and O has no win available
		board := parseBoard(t, "XX./.O./...")

		// When: the computer playing O picks a move
		cell, err := BestMove(board, entity.PlayerO)

		// Then: it blocks cell 2
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Blocks a diagonal", func(t *testing.T) {
		// Given: X threatens the anti-diagonal
		board := parseBoard(t, "O../.X./X..")

		// When: the computer playing O picks a move
		cell, err := BestMove(board, entity.PlayerO)

		// Then: it blocks cell 2
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})
}

func TestSearch_LeavesBoardUnchanged(t *testing.T) {
	// Given: a board in the middle of a game and a copy of it
	board := parseBoard(t, "X../.O./..X")
	snapshot := board

	// When: searching for the computer's move
	_, err := Search(board, entity.PlayerO)
	require.NoError(t, err)

	// Then: the caller's board is exactly as before
	assert.Equal(t, snapshot, board)
}

func TestSearch_EmptyBoard(t *testing.T) {
	// Given: an empty board
	var board entity.Board

	// When: the computer opens as X
	move, err := Search(board, entity.PlayerX)

	// Then: perfect play is a draw and ties resolve to the lowest cell
	require.NoError(t, err)
	assert.Equal(t, 0, move.Score)
	assert.Equal(t, 0, move.Cell)
}

func TestSearch_Preconditions(t *testing.T) {
	t.Run("Full board", func(t *testing.T) {
		// Given: a drawn board
		board := parseBoard(t, "XOX/XOO/OXX")

		// When: asking for a move
		_, err := Search(board, entity.PlayerO)

		// Then: there is nothing to play
		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})

	t.Run("Already won", func(t *testing.T) {
		// Given: X already owns the top row
		board := parseBoard(t, "XXX/OO./...")

		// When: asking for a move
		cell, err := BestMove(board, entity.PlayerO)

		// Then: the game is over
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, -1, cell)
	})

	t.Run("Invalid mark", func(t *testing.T) {
		// Given: an empty board
		var board entity.Board

		// When: asking for a move for no mark at all
		_, err := BestMove(board, entity.EmptyCell)

		// Then: the mark is rejected
		require.ErrorIs(t, err, entity.ErrInvalidMark)
	})
}

func TestSearch_MatchesReferenceScores(t *testing.T) {
	// Given: every reachable, non-terminal position
	seen := make(map[entity.Board]bool)

	var walk func(board entity.Board, turn entity.Mark)
	walk = func(board entity.Board, turn entity.Mark) {
		if seen[board] || entity.EvaluateTerminal(board, turn.Opponent()).IsTerminal() {
			return
		}
		seen[board] = true

		// When: the side to move asks for a move
		move, err := Search(board, turn)
		require.NoError(t, err)
		require.Equal(t, entity.EmptyCell, board[move.Cell])

		// Then: no other empty cell scores strictly higher, and the first best cell is chosen
		for _, cell := range board.EmptyCells() {
			next := board
			next[cell] = turn
			score := referenceScore(&next, turn, 0, false)

			require.LessOrEqual(t, score, move.Score, "board %s cell %d", board, cell)
			if cell < move.Cell {
				require.Less(t, score, move.Score, "board %s: cell %d ties earlier", board, cell)
			}
			if cell == move.Cell {
				require.Equal(t, move.Score, score, "board %s", board)
			}
		}

		for _, cell := range board.EmptyCells() {
			next := board
			next[cell] = turn
			walk(next, turn.Opponent())
		}
	}

	walk(entity.Board{}, entity.PlayerX)

	require.NotEmpty(t, seen)
}

// playEveryOpponentLine lets the opponent try every legal reply while the computer always
// answers with BestMove, and returns how many finished games each outcome produced.
func playEveryOpponentLine(t *testing.T, board entity.Board, turn, computer entity.Mark, outcomes map[string]int) {
	t.Helper()

	if result := entity.EvaluateTerminal(board, turn.Opponent()); result.IsTerminal() {
		switch {
		case result.Outcome == entity.OutcomeDraw:
			outcomes["draw"]++
		case result.Winner == computer:
			outcomes["computer"]++
		default:
			outcomes["opponent"]++
			t.Errorf("computer %s lost: %s", computer, board)
		}
		return
	}

	if turn == computer {
		cell, err := BestMove(board, computer)
		require.NoError(t, err)

		next := board
		next[cell] = computer
		playEveryOpponentLine(t, next, turn.Opponent(), computer, outcomes)
		return
	}

	for _, cell := range board.EmptyCells() {
		next := board
		next[cell] = turn
		playEveryOpponentLine(t, next, turn.Opponent(), computer, outcomes)
	}
}

func TestBestMove_NeverLoses(t *testing.T) {
	t.Run("Computer moves second", func(t *testing.T) {
		// Given: the opponent opens as X and tries every continuation
		outcomes := make(map[string]int)

		// When: the computer answers every line as O
		playEveryOpponentLine(t, entity.Board{}, entity.PlayerX, entity.PlayerO, outcomes)

		// Then: it never loses and punishes some mistakes
		assert.Zero(t, outcomes["opponent"])
		assert.Positive(t, outcomes["computer"])
		assert.Positive(t, outcomes["draw"])
	})

	t.Run("Computer moves first", func(t *testing.T) {
		// Given: the computer opens as X
		outcomes := make(map[string]int)

		// When: the opponent tries every continuation as O
		playEveryOpponentLine(t, entity.Board{}, entity.PlayerX, entity.PlayerX, outcomes)

		// Then: it never loses
		assert.Zero(t, outcomes["opponent"])
		assert.Positive(t, outcomes["computer"])
	})
}

func TestBestMove_SelfPlayIsDraw(t *testing.T) {
	// Given: an empty board and both sides played by the search
	var board entity.Board
	turn := entity.PlayerX

	// When: playing until the game ends
	result := entity.EvaluateTerminal(board, turn)
	for !result.IsTerminal() {
		cell, err := BestMove(board, turn)
		require.NoError(t, err)

		board.ApplyMove(cell, turn)
		result = entity.EvaluateTerminal(board, turn)
		turn = turn.Opponent()
	}

	// Then: optimal play on both sides is a draw
	assert.Equal(t, entity.OutcomeDraw, result.Outcome)
	assert.True(t, board.IsDraw())
}
