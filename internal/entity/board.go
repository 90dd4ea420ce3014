package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board")

	// WinCombos - rows, then columns, then diagonals.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// IsPlayer reports whether the mark is X or O.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's mark, or EmptyCell for anything that is not a player mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMark, data)
	}

	mark := Mark(raw)
	if mark != EmptyCell && !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, raw)
	}

	*that = mark
	return nil
}

// Board is a 3x3 grid in row-major order.
type Board [9]Mark

// UnmarshalJSON accepts exactly one entry per cell; encoding/json would otherwise pad or
// truncate the array silently.
func (that *Board) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var cells []Mark
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	if len(cells) != len(that) {
		return fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, len(that), len(cells))
	}

	copy(that[:], cells)

	return nil
}

// ApplyMove puts mark into cell. The cell must be empty and the game must not be over;
// callers that accept moves from the outside validate this first (see tictactoe.MakeTurn).
func (that *Board) ApplyMove(cell int, mark Mark) {
	that[cell] = mark
}

// IsWinning reports whether any winning line is fully occupied by mark.
func (that Board) IsWinning(mark Mark) bool {
	_, ok := that.WinningLine(mark)
	return ok
}

// WinningLine returns the first line of WinCombos fully occupied by mark.
func (that Board) WinningLine(mark Mark) ([3]int, bool) {
	if !mark.IsPlayer() {
		return [3]int{}, false
	}

	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return combo, true
		}
	}

	return [3]int{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// IsDraw reports a full board on which neither mark has a line.
func (that Board) IsDraw() bool {
	return that.IsFull() && !that.IsWinning(PlayerX) && !that.IsWinning(PlayerO)
}

// EmptyCells returns the indices of the empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Count returns how many cells hold mark.
func (that Board) Count(mark Mark) int {
	var n int
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}

	return n
}

func (that Board) String() string {
	buf := make([]byte, 0, 12)
	for i, cell := range that {
		if i > 0 && i%3 == 0 {
			buf = append(buf, '/')
		}

		if cell == EmptyCell {
			buf = append(buf, '.')
			continue
		}

		buf = append(buf, cell[0])
	}

	return string(buf)
}
