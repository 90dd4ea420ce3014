package entity

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWin     Outcome = "win"
	OutcomeDraw    Outcome = "draw"
)

// Result is the terminal evaluation of a board.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  Mark    `json:"winner,omitempty"`
	Line    []int   `json:"line,omitempty"`
}

func (that Result) IsTerminal() bool {
	return that.Outcome != OutcomeOngoing
}

// EvaluateTerminal checks the board after mark has moved. Wins are checked before the draw,
// since a full board can still carry a winning line.
func EvaluateTerminal(board Board, mark Mark) Result {
	players := []Mark{mark, mark.Opponent()}
	if !mark.IsPlayer() {
		players = []Mark{PlayerX, PlayerO}
	}

	for _, player := range players {
		if line, ok := board.WinningLine(player); ok {
			return Result{
				Outcome: OutcomeWin,
				Winner:  player,
				Line:    line[:],
			}
		}
	}

	if board.IsFull() {
		return Result{Outcome: OutcomeDraw}
	}

	return Result{Outcome: OutcomeOngoing}
}
