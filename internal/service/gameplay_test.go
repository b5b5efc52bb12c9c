package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropfourhq/dropfour-backend/internal/apperror"
	"github.com/dropfourhq/dropfour-backend/internal/config"
	"github.com/dropfourhq/dropfour-backend/internal/entity"
	"github.com/dropfourhq/dropfour-backend/internal/repository"
)

type fakePlayerRepo struct {
	players map[string]*entity.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]*entity.Player)}
}

func (that *fakePlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player
	return nil
}

func (that *fakePlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}

	return player, nil
}

type fakeGameRepo struct {
	games map[string]*entity.Game
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]*entity.Game)}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game
	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}

	return game, nil
}

func (that *fakeGameRepo) GetWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	for _, game := range that.games {
		if game.IsPublic() && game.IsWaiting() {
			return game, nil
		}
	}

	return nil, repository.ErrGameNotFound
}

func (that *fakeGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.games, id)
	return nil
}

type gamePlayFixture struct {
	playerRepo *fakePlayerRepo
	gameRepo   *fakeGameRepo

	playerService PlayerService
	gameService   GameService
	gamePlay      GamePlayService
}

func newGamePlayFixture(t *testing.T) (context.Context, *gamePlayFixture) {
	t.Helper()

	playerRepo := newFakePlayerRepo()
	gameRepo := newFakeGameRepo()

	playerService := NewPlayerService(playerRepo)
	gameService := NewGameService(gameRepo, config.Game{Rows: 3, Columns: 3, WinLength: 3})
	botService := NewBotService()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gamePlay := NewGamePlayService(logger, playerService, gameService, botService)

	return context.Background(), &gamePlayFixture{
		playerRepo:    playerRepo,
		gameRepo:      gameRepo,
		playerService: playerService,
		gameService:   gameService,
		gamePlay:      gamePlay,
	}
}

// seatBotGame wires a bot game by hand so the marks are deterministic.
func seatBotGame(ctx context.Context, t *testing.T, fixture *gamePlayFixture) (*entity.Game, *entity.Player) {
	t.Helper()

	game := entity.NewGame("bot-game", entity.WithBotType, 3, 3, 3)
	game.Status = entity.StatusOngoing
	game.BotSkill = 1

	humanPlayer := &entity.Player{ID: "human", GameID: game.ID, Mark: entity.PlayerX}
	botPlayer := entity.NewBotPlayer(game.ID, entity.PlayerO)
	game.Players = []*entity.Player{humanPlayer, botPlayer}

	require.NoError(t, fixture.playerService.UpdatePlayer(ctx, humanPlayer))
	require.NoError(t, fixture.playerService.UpdatePlayer(ctx, botPlayer))
	require.NoError(t, fixture.gameService.UpdateGame(ctx, game))

	return game, humanPlayer
}

func TestGamePlayService_GetOrCreateGame(t *testing.T) {
	t.Run("Creates a private game with the creator on the X seat", func(t *testing.T) {
		// Given: a fresh player
		ctx, fixture := newGamePlayFixture(t)
		player, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: the player asks for a new private game
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")

		// Then: a waiting game exists with the creator holding X
		require.NoError(t, err)
		assert.True(t, game.IsWaiting())
		require.Len(t, game.Players, 1)
		assert.Equal(t, entity.PlayerX, game.Players[0].Mark)
		assert.Equal(t, game.ID, player.GameID)
	})

	t.Run("Returns the existing game when the player is already seated", func(t *testing.T) {
		// Given: a player already inside a game
		ctx, fixture := newGamePlayFixture(t)
		player, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		firstGame, err := fixture.gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")
		require.NoError(t, err)

		// When: the player asks again
		secondGame, err := fixture.gamePlay.GetOrCreateGame(ctx, player, entity.PrivateType, "")

		// Then: the same game comes back
		require.NoError(t, err)
		assert.Equal(t, firstGame.ID, secondGame.ID)
	})

	t.Run("Bot game seats a bot and starts right away", func(t *testing.T) {
		// Given: a fresh player
		ctx, fixture := newGamePlayFixture(t)
		player, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: the player asks for a bot game on hard
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, player, entity.WithBotType, DifficultyHard)

		// Then: the game is ongoing with a bot seat and the hard skill
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		assert.InEpsilon(t, 0.95, game.BotSkill, 1e-9)

		require.Len(t, game.Players, 2)
		var botPlayer *entity.Player
		for _, seated := range game.Players {
			if seated.IsBot() {
				botPlayer = seated
			}
		}
		require.NotNil(t, botPlayer)
		assert.Equal(t, entity.OpposingMark(player.Mark), botPlayer.Mark)

		// Then: the bot already opened if it drew X
		if botPlayer.Mark == entity.PlayerX {
			assert.Equal(t, 1, game.MoveCount)
		} else {
			assert.Equal(t, 0, game.MoveCount)
		}
	})
}

func TestGamePlayService_JoinGameByID(t *testing.T) {
	t.Run("Second player takes the O seat and the game starts", func(t *testing.T) {
		// Given: a waiting private game and a second player
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: the second player joins by id
		joinedGame, err := fixture.gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)

		// Then: the game is ongoing with the joiner holding O
		require.NoError(t, err)
		assert.True(t, joinedGame.IsOngoing())
		assert.Equal(t, entity.PlayerO, joiner.Mark)
		require.Len(t, joinedGame.Players, 2)
	})

	t.Run("Rejoining your own game is a no-op", func(t *testing.T) {
		// Given: a player already seated in a game
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		// When: the creator joins their own game
		joinedGame, err := fixture.gamePlay.JoinGameByID(ctx, game.ID, creator.ID)

		// Then: the game comes back unchanged
		require.NoError(t, err)
		assert.True(t, joinedGame.IsWaiting())
		require.Len(t, joinedGame.Players, 1)
	})

	t.Run("Third player is rejected", func(t *testing.T) {
		// Given: a full two-player game
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		_, err = fixture.gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		intruder, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: a third player tries to join
		_, err = fixture.gamePlay.JoinGameByID(ctx, game.ID, intruder.ID)

		// Then: the game reports it is full
		require.ErrorIs(t, err, apperror.ErrGameAlreadyFull)
	})
}

func TestGamePlayService_JoinWaitingPublicGame(t *testing.T) {
	t.Run("Joins the waiting public game", func(t *testing.T) {
		// Given: a waiting public game and a second player
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		_, err = fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PublicType, "")
		require.NoError(t, err)

		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: the second player asks for a public match
		game, err := fixture.gamePlay.JoinWaitingPublicGame(ctx, joiner.ID)

		// Then: the game is ongoing with both seats taken
		require.NoError(t, err)
		assert.True(t, game.IsOngoing())
		require.Len(t, game.Players, 2)
	})

	t.Run("Fails when nobody is waiting", func(t *testing.T) {
		// Given: no public games
		ctx, fixture := newGamePlayFixture(t)
		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: the player asks for a public match
		_, err = fixture.gamePlay.JoinWaitingPublicGame(ctx, joiner.ID)

		// Then: the lookup failure is surfaced
		require.ErrorIs(t, err, repository.ErrGameNotFound)
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	t.Run("Turn in a waiting game is rejected", func(t *testing.T) {
		// Given: a waiting private game
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		_, err = fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		// When: the creator tries to move before an opponent arrives
		_, err = fixture.gamePlay.MakeTurn(ctx, creator.ID, 0)

		// Then: the move is rejected
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Moving out of turn is rejected and the game survives", func(t *testing.T) {
		// Given: an ongoing two-player game where X already moved
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		_, err = fixture.gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		_, err = fixture.gamePlay.MakeTurn(ctx, creator.ID, 0)
		require.NoError(t, err)

		// When: the creator moves again right away
		rejectedGame, err := fixture.gamePlay.MakeTurn(ctx, creator.ID, 1)

		// Then: the move is rejected and the session keeps its single mark
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		require.NotNil(t, rejectedGame)
		assert.Equal(t, 1, rejectedGame.MoveCount)
	})

	t.Run("Bot replies right after the player's drop", func(t *testing.T) {
		// Given: an ongoing bot game with the human on the X seat
		ctx, fixture := newGamePlayFixture(t)
		_, humanPlayer := seatBotGame(ctx, t, fixture)

		// When: the human drops into column 0
		game, err := fixture.gamePlay.MakeTurn(ctx, humanPlayer.ID, 0)

		// Then: both drops landed and it is the human's turn again
		require.NoError(t, err)
		assert.Equal(t, 2, game.MoveCount)
		assert.Equal(t, entity.PlayerX, game.Turn)
		assert.Equal(t, entity.PlayerX, game.Board[2][0])
	})

	t.Run("Bot does not reply once the game is finished", func(t *testing.T) {
		// Given: a bot game one drop away from a human win
		ctx, fixture := newGamePlayFixture(t)
		game, humanPlayer := seatBotGame(ctx, t, fixture)
		game.Board = [][]string{
			{entity.EmptyCell, entity.EmptyCell, entity.EmptyCell},
			{entity.PlayerX, entity.PlayerO, entity.EmptyCell},
			{entity.PlayerX, entity.PlayerO, entity.EmptyCell},
		}
		game.MoveCount = 4
		require.NoError(t, fixture.gameService.UpdateGame(ctx, game))

		// When: the human completes the vertical line
		finishedGame, err := fixture.gamePlay.MakeTurn(ctx, humanPlayer.ID, 0)

		// Then: the human won and no bot drop follows
		require.NoError(t, err)
		require.True(t, finishedGame.IsFinished())
		assert.Equal(t, entity.PlayerX, finishedGame.Winner)
		assert.Equal(t, 5, finishedGame.MoveCount)
	})
}

func TestGamePlayService_EndGame(t *testing.T) {
	t.Run("Releases the players and discards the game", func(t *testing.T) {
		// Given: an ongoing two-player game
		ctx, fixture := newGamePlayFixture(t)
		creator, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err := fixture.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, "")
		require.NoError(t, err)

		joiner, err := fixture.playerService.CreatePlayer(ctx)
		require.NoError(t, err)
		game, err = fixture.gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
		require.NoError(t, err)

		// When: the game is ended on behalf of a leaving player
		err = fixture.gamePlay.EndGame(ctx, game)

		// Then: the session is terminal, the seats are released and the game is gone
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerTie, game.Winner)
		assert.Empty(t, creator.GameID)
		assert.Empty(t, joiner.Mark)

		_, err = fixture.gameService.GetGameByID(ctx, game.ID)
		require.ErrorIs(t, err, repository.ErrGameNotFound)
	})

	t.Run("Finished game keeps its winner", func(t *testing.T) {
		// Given: a finished bot game X already won
		ctx, fixture := newGamePlayFixture(t)
		game, _ := seatBotGame(ctx, t, fixture)
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerX

		// When: the game is ended
		err := fixture.gamePlay.EndGame(ctx, game)

		// Then: the recorded winner is untouched
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Winner)
	})
}

func TestGamePlayService_CleanupGame(t *testing.T) {
	t.Run("Releases the players and deletes the game", func(t *testing.T) {
		// Given: a finished bot game
		ctx, fixture := newGamePlayFixture(t)
		game, humanPlayer := seatBotGame(ctx, t, fixture)
		game.Status = entity.StatusFinished
		game.Winner = entity.PlayerO

		// When: the finished game is cleaned up
		fixture.gamePlay.CleanupGame(ctx, game)

		// Then: the human seat is released and the game is gone
		assert.Empty(t, humanPlayer.GameID)
		assert.Empty(t, humanPlayer.Mark)

		_, err := fixture.gameService.GetGameByID(ctx, game.ID)
		require.ErrorIs(t, err, repository.ErrGameNotFound)
	})
}
