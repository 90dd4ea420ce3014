package entity

type Player struct {
	ID     string `json:"id"`
	Mark   Mark   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

// Detach removes the player from their current game.
func (that *Player) Detach() {
	that.GameID = ""
	that.Mark = EmptyCell
}
