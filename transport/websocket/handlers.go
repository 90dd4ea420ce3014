package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
)

// clientErrors are reported to the client verbatim; anything else is logged and hidden.
var clientErrors = []error{
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrCellOccupied,
	apperror.ErrNoActiveGame,
	entity.ErrInvalidCell,
	entity.ErrInvalidMark,
	entity.ErrUnknownGameType,
	repository.ErrPlayerNotFound,
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendErrorResponse(conn, msg.Action, "invalid payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.uGame.GetGameByPlayerID(ctx, player.ID)
		if err == nil {
			payloadResp.Game = maskGameDetails(that.settlePendingTurn(ctx, player.ID, game))
		} else if !errors.Is(err, apperror.ErrNoActiveGame) {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, ok := that.parsePlayerPayload(msg, conn)
	if !ok {
		return nil
	}

	gameType := entity.WithBotType
	if payloadReq.Game != nil && payloadReq.Game.Type != "" {
		gameType = payloadReq.Game.Type
	}

	game, err := that.uGame.GetOrCreateGame(ctx, payloadReq.Player.ID, gameType)
	if err != nil {
		return that.replyWithError(conn, msg.Action, "failed to create a new game", err)
	}

	game = that.settlePendingTurn(ctx, payloadReq.Player.ID, game)

	return that.sendGame(conn, msg.Action, game, nil)
}

// handleGameTurn applies the human move and, in a bot game that is still going,
// answers with the computer's move after the configured delay.
func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, ok := that.parsePlayerPayload(msg, conn)
	if !ok {
		return nil
	}

	if payloadReq.Cell == nil {
		that.sendErrorResponse(conn, msg.Action, "Cell is required")
		return nil
	}

	playerID := payloadReq.Player.ID

	game, err := that.uGame.MakeTurn(ctx, playerID, *payloadReq.Cell)
	if err != nil {
		return that.replyWithError(conn, msg.Action, "failed to make turn", err)
	}

	if err = that.sendGame(conn, msg.Action, game, payloadReq.Cell); err != nil {
		return err
	}

	if !game.IsComputerTurn() {
		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(that.botDelay):
	}

	game, cell, err := that.uGame.MakeComputerTurn(ctx, playerID)
	if errors.Is(err, apperror.ErrNotComputerTurn) || errors.Is(err, apperror.ErrNoActiveGame) {
		log.Debug("computer turn skipped", "playerID", playerID, "reason", err)
		return nil
	}

	if err != nil {
		return that.replyWithError(conn, msg.Action, "failed to make computer turn", err)
	}

	return that.sendGame(conn, msg.Action, game, &cell)
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, ok := that.parsePlayerPayload(msg, conn)
	if !ok {
		return nil
	}

	game, err := that.uGame.RestartGame(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.replyWithError(conn, msg.Action, "failed to restart game", err)
	}

	return that.sendGame(conn, msg.Action, game, nil)
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, ok := that.parsePlayerPayload(msg, conn)
	if !ok {
		return nil
	}

	game, err := that.uGame.LeaveGame(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.replyWithError(conn, msg.Action, "failed to leave game", err)
	}

	masked := maskGameDetails(game)
	masked.Status = gameStatusLeave

	if err = that.sendMessage(conn, msg.Action, Payload{Game: masked}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.logger.Info("player left the game", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

// settlePendingTurn plays a computer move that is still owed, for example when the server
// stopped during the reply delay. The game is returned as stored afterwards.
func (that *Server) settlePendingTurn(ctx context.Context, playerID string, game *entity.Game) *entity.Game {
	if !game.IsComputerTurn() {
		return game
	}

	log := that.logger.With("method", "settlePendingTurn", "playerID", playerID, "gameID", game.ID)

	settled, cell, err := that.uGame.MakeComputerTurn(ctx, playerID)
	if err == nil {
		log.Info("pending computer turn played", "cell", cell)
		return settled
	}

	if !errors.Is(err, apperror.ErrNotComputerTurn) {
		log.Error("failed to play pending computer turn", "error", err)
		return game
	}

	// Another connection got there first.
	current, err := that.uGame.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		log.Error("failed to reload game", "error", err)
		return game
	}

	return current
}

// parsePlayerPayload decodes a payload that must name a player.
func (that *Server) parsePlayerPayload(msg *Message, conn *connection) (Payload, bool) {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendErrorResponse(conn, msg.Action, "invalid payload")
		return Payload{}, false
	}

	if payloadReq.Player == nil || payloadReq.Player.ID == "" {
		that.sendErrorResponse(conn, msg.Action, "Player is required")
		return Payload{}, false
	}

	return payloadReq, true
}

func (that *Server) sendGame(conn *connection, action string, game *entity.Game, cell *int) error {
	payloadResp := Payload{
		Game: maskGameDetails(game),
		Cell: cell,
	}

	if err := that.sendMessage(conn, action, payloadResp); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	return nil
}

// replyWithError sends the client a readable reason for err. Errors the client caused are
// not returned, so only server-side failures reach the log.
func (that *Server) replyWithError(conn *connection, action, fallback string, err error) error {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			that.sendErrorResponse(conn, action, target.Error())
			return nil
		}
	}

	that.sendErrorResponse(conn, action, fallback)

	return fmt.Errorf("%s: %w", fallback, err)
}
