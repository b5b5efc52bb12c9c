package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dropfourhq/dropfour-backend/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// waitingPublicGameKey points at the one public game waiting for a second
// seat, so casual matchmaking is a single GET.
const waitingPublicGameKey = "games:public:waiting"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetWaitingPublicGame(ctx context.Context) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := "game:" + game.ID
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	if err = that.updateWaitingPointer(ctx, game); err != nil {
		return err
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	gameKey := "game:" + id

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) GetWaitingPublicGame(ctx context.Context) (*entity.Game, error) {
	gameID, err := that.client.Get(ctx, waitingPublicGameKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get waiting public game: %w", err)
	}

	return that.GetByID(ctx, gameID)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	gameKey := "game:" + id

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	waitingID, err := that.client.Get(ctx, waitingPublicGameKey).Result()
	if err == nil && waitingID == id {
		if err = that.client.Del(ctx, waitingPublicGameKey).Err(); err != nil {
			return fmt.Errorf("failed to clear waiting public game: %w", err)
		}
	}

	return nil
}

// updateWaitingPointer keeps the waiting-public-game key in sync with the
// stored game state.
func (that *dbGame) updateWaitingPointer(ctx context.Context, game *entity.Game) error {
	if !game.IsPublic() {
		return nil
	}

	if game.IsWaiting() {
		if err := that.client.Set(ctx, waitingPublicGameKey, game.ID, 0).Err(); err != nil {
			return fmt.Errorf("failed to set waiting public game: %w", err)
		}

		return nil
	}

	waitingID, err := that.client.Get(ctx, waitingPublicGameKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check waiting public game: %w", err)
	}

	if waitingID == game.ID {
		if err = that.client.Del(ctx, waitingPublicGameKey).Err(); err != nil {
			return fmt.Errorf("failed to clear waiting public game: %w", err)
		}
	}

	return nil
}
