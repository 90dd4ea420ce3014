package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	bot        botService
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		bot:        bot,
	}
}

// GetOrCreatePlayer returns the player with id. An empty id gets a fresh session id, and an
// unknown id (for example one whose session expired) is registered again.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		newID, err := pkg.GenerateNewSessionID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate player id: %w", err)
		}

		id = newID
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err == nil {
		return player, nil
	}

	if !errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	player = &entity.Player{ID: id}
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

// GetOrCreateGame returns the player's current game or starts a new one of gameType.
// Asking for a different type than the current game ends that game and starts a new one.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	if err := entity.ValidateGameType(gameType); err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		game, err := that.gameRepo.GetByID(ctx, player.GameID)
		switch {
		case err == nil && game.Type == gameType:
			return game, nil
		case err == nil:
			that.logger.Info("player switched game type", "playerID", player.ID, "from", game.Type, "to", gameType)
			that.deleteGame(ctx, game)
		case errors.Is(err, repository.ErrGameNotFound):
			that.logger.Info("player's game expired", "playerID", player.ID, "gameID", player.GameID)
		default:
			return nil, fmt.Errorf("failed to get game: %w", err)
		}

		player.Detach()
	}

	game, err := that.createGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

// GetGameByPlayerID returns the game the player is seated in.
func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return that.getPlayerGame(ctx, player)
}

// MakeTurn applies a human move. In a bot game the computer does not answer here;
// the caller follows up with MakeComputerTurn when the game reports the computer's turn.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := that.getPlayerGame(ctx, player)
	if err != nil {
		return nil, err
	}

	if game.IsComputerTurn() {
		return nil, apperror.ErrNotYourTurn
	}

	if err = tictactoe.MakeTurn(game, game.PlayerMark(player), cell); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// MakeComputerTurn lets the computer answer in the player's bot game and returns the cell it played.
func (that *GameManager) MakeComputerTurn(ctx context.Context, playerID string) (*entity.Game, int, error) {
	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, -1, err
	}

	if !game.IsComputerTurn() {
		return nil, -1, apperror.ErrNotComputerTurn
	}

	cell, err := that.bot.MakeTurn(game)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to make computer turn: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, -1, err
	}

	return game, cell, nil
}

// RestartGame clears the board for a new round and keeps the round tally.
func (that *GameManager) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game.Reset()

	if game.IsComputerTurn() {
		if _, err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// LeaveGame deletes the player's game and frees every player seated in it.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.deleteGame(ctx, game)

	return game, nil
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	game := entity.NewGame(gameID, gameType)

	player.GameID = gameID
	if game.IsWithBot() {
		player.Mark = entity.PlayerX
		game.ComputerMark = entity.PlayerO
	}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	game.Players = []*entity.Player{player}

	if game.IsComputerTurn() {
		if _, err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "gameID", game.ID, "type", game.Type, "playerID", player.ID)

	return game, nil
}

func (that *GameManager) getPlayerGame(ctx context.Context, player *entity.Player) (*entity.Game, error) {
	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("%w: game %s", apperror.ErrNoActiveGame, player.GameID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		player.Detach()

		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "playerID", player.ID, "error", err)
		}
	}

	log.Info("game deleted")
}
