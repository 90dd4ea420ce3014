package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

const (
	WithBotType = "bot"
	LocalType   = "local"
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrUnknownGameType   = errors.New("unknown game type")
)

// Score is the tally of finished rounds within one session.
type Score struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

func (that *Score) Record(result Result) {
	switch {
	case result.Outcome == OutcomeDraw:
		that.Draw++
	case result.Outcome == OutcomeWin && result.Winner == PlayerX:
		that.X++
	case result.Outcome == OutcomeWin && result.Winner == PlayerO:
		that.O++
	}
}

type Game struct {
	ID           string    `json:"id"`
	Board        Board     `json:"board"`
	Winner       string    `json:"winner"`
	WinLine      []int     `json:"win_line,omitempty"`
	Status       string    `json:"status"`
	Turn         Mark      `json:"player_turn"`
	Type         string    `json:"type,omitempty"`
	ComputerMark Mark      `json:"computer_mark,omitempty"`
	Score        Score     `json:"score"`
	Players      []*Player `json:"players,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusOngoing,
		Type:   gameType,
	}
}

func ValidateGameType(gameType string) error {
	switch gameType {
	case WithBotType, LocalType:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}
}

// UpdateGameState evaluates the board after mark has moved and either finishes the round
// or passes the turn to the other mark.
func (that *Game) UpdateGameState(mark Mark) Result {
	result := EvaluateTerminal(that.Board, mark)

	switch result.Outcome {
	// one player wins
	case OutcomeWin:
		that.Winner = string(result.Winner)
		that.WinLine = result.Line
		that.Status = StatusFinished
		that.Turn = EmptyCell
		that.Score.Record(result)
	// tie
	case OutcomeDraw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell
		that.Score.Record(result)
	// game continue
	default:
		that.Status = StatusOngoing
		that.Turn = mark.Opponent()
	}

	return result
}

// Reset starts a new round on the same session. The score survives.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = ""
	that.WinLine = nil
	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) IsLocal() bool {
	return that.Type == LocalType
}

// IsComputerTurn reports whether the computer is expected to move next.
func (that *Game) IsComputerTurn() bool {
	return that.IsWithBot() && that.IsOngoing() && that.ComputerMark.IsPlayer() && that.Turn == that.ComputerMark
}

// PlayerMark returns the mark a human player moves with: their own in a bot game,
// whoever's turn it is in a local game.
func (that *Game) PlayerMark(player *Player) Mark {
	if that.IsLocal() {
		return that.Turn
	}

	return player.Mark
}
