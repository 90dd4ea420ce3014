package terminal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const rowSeparator = "---+---+---"

// Renderer draws boards and round summaries. Colours degrade to plain text when the
// output profile is Ascii.
type Renderer struct {
	out *termenv.Output

	colorX termenv.Color
	colorO termenv.Color
}

func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{
		out:    out,
		colorX: out.Color("#E88388"),
		colorO: out.Color("#66C2CD"),
	}
}

// Board prints the grid. Empty cells show the number a player types to take them and the
// cells of line are highlighted.
func (that *Renderer) Board(board entity.Board, line []int) {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowSeparator + "\n")
		}

		for col := 0; col < 3; col++ {
			i := row*3 + col
			if col > 0 {
				sb.WriteString("|")
			}

			sb.WriteString(" " + that.cell(board[i], i, slices.Contains(line, i)) + " ")
		}

		sb.WriteString("\n")
	}

	fmt.Fprint(that.out, sb.String())
}

func (that *Renderer) cell(mark entity.Mark, i int, highlighted bool) string {
	var style termenv.Style

	switch mark {
	case entity.PlayerX:
		style = that.out.String(string(mark)).Foreground(that.colorX).Bold()
	case entity.PlayerO:
		style = that.out.String(string(mark)).Foreground(that.colorO).Bold()
	default:
		style = that.out.String(strconv.Itoa(i + 1)).Faint()
	}

	if highlighted {
		style = style.Reverse()
	}

	return style.String()
}

// Result announces the end of a round. computer is EmptyCell when two people share the terminal.
func (that *Renderer) Result(result entity.Result, computer entity.Mark) {
	var text string

	switch {
	case result.Outcome == entity.OutcomeDraw:
		text = "It's a draw."
	case computer.IsPlayer() && result.Winner == computer:
		text = "Computer wins!"
	case computer.IsPlayer():
		text = "You win!"
	default:
		text = fmt.Sprintf("%s wins!", result.Winner)
	}

	fmt.Fprintln(that.out, that.out.String(text).Bold())
}

func (that *Renderer) Score(score entity.Score) {
	fmt.Fprintf(that.out, "Score  X: %d  O: %d  Draws: %d\n", score.X, score.O, score.Draw)
}

// Notice prints a dimmed informational line.
func (that *Renderer) Notice(format string, args ...any) {
	fmt.Fprintln(that.out, that.out.String(fmt.Sprintf(format, args...)).Faint())
}

func (that *Renderer) Prompt(format string, args ...any) {
	fmt.Fprintf(that.out, format, args...)
}
