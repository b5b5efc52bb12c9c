package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropfourhq/dropfour-backend/internal/apperror"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// When: checking if the game is finished
		isFinished := game.IsFinished()

		// Then: it should return true
		assert.True(t, isFinished)
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		// Given: a game with StatusOngoing
		game := &Game{Status: StatusOngoing}

		// When: checking if the game is ongoing
		isOngoing := game.IsOngoing()

		// Then: it should return true
		assert.True(t, isOngoing)
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		// Given: a game with StatusWaiting
		game := &Game{Status: StatusWaiting}

		// When: checking if the game is waiting
		isWaiting := game.IsWaiting()

		// Then: it should return true
		assert.True(t, isWaiting)
	})

	t.Run("IsDraw returns true only for a finished tie", func(t *testing.T) {
		// Given: a finished game with a tie winner
		game := &Game{Status: StatusFinished, Winner: PlayerTie}

		// Then: the game is a draw
		assert.True(t, game.IsDraw())

		// Given: a finished game X won
		game = &Game{Status: StatusFinished, Winner: PlayerX}

		// Then: the game is not a draw
		assert.False(t, game.IsDraw())

		// Given: an ongoing game
		game = &Game{Status: StatusOngoing}

		// Then: the game is not a draw
		assert.False(t, game.IsDraw())
	})
}

func TestConfirmOngoingState(t *testing.T) {
	t.Run("Waiting game is not started", func(t *testing.T) {
		// Given: a waiting game
		game := &Game{Status: StatusWaiting}

		// When: confirming the ongoing state
		err := game.ConfirmOngoingState()

		// Then: it should return ErrGameIsNotStarted
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Finished game is rejected", func(t *testing.T) {
		// Given: a finished game
		game := &Game{Status: StatusFinished}

		// When: confirming the ongoing state
		err := game.ConfirmOngoingState()

		// Then: it should return ErrGameFinished
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Ongoing game passes", func(t *testing.T) {
		// Given: an ongoing game
		game := &Game{Status: StatusOngoing}

		// When: confirming the ongoing state
		err := game.ConfirmOngoingState()

		// Then: no error is returned
		require.NoError(t, err)
	})

	t.Run("Unknown status is reported", func(t *testing.T) {
		// Given: a game with a corrupted status
		game := &Game{Status: "paused"}

		// When: confirming the ongoing state
		err := game.ConfirmOngoingState()

		// Then: the unknown status error is returned
		require.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestNewGame(t *testing.T) {
	t.Run("Creates an empty waiting board with X to move", func(t *testing.T) {
		// Given / When: a new 6x7 game
		game := NewGame("game-id", PublicType, 6, 7, 4)

		// Then: the session starts waiting, X to move, board empty
		assert.Equal(t, "game-id", game.ID)
		assert.Equal(t, StatusWaiting, game.Status)
		assert.Equal(t, PlayerX, game.Turn)
		assert.Equal(t, 0, game.MoveCount)
		require.Len(t, game.Board, 6)
		for _, row := range game.Board {
			require.Len(t, row, 7)
			for _, cell := range row {
				assert.Equal(t, EmptyCell, cell)
			}
		}
	})

	t.Run("Win length is clamped to the shorter board side", func(t *testing.T) {
		// Given / When: a 3x5 game asking for five in a row
		game := NewGame("game-id", PrivateType, 3, 5, 5)

		// Then: the win length shrinks to fit the rows
		assert.Equal(t, 3, game.WinLength)
	})

	t.Run("Win length below two is raised to two", func(t *testing.T) {
		// Given / When: a game asking for a single-cell win
		game := NewGame("game-id", PrivateType, 3, 3, 1)

		// Then: the minimum win length applies
		assert.Equal(t, 2, game.WinLength)
	})
}

func TestGameTypeMethods(t *testing.T) {
	t.Run("IsPublic and IsWithBot follow the game type", func(t *testing.T) {
		assert.True(t, (&Game{Type: PublicType}).IsPublic())
		assert.False(t, (&Game{Type: PrivateType}).IsPublic())
		assert.True(t, (&Game{Type: WithBotType}).IsWithBot())
		assert.False(t, (&Game{Type: PublicType}).IsWithBot())
	})
}

func TestGetRandomMarks(t *testing.T) {
	t.Run("Always hands out both marks", func(t *testing.T) {
		// Given: any game
		game := &Game{}

		// When / Then: the two marks are always opposite
		for i := 0; i < 20; i++ {
			first, second := game.GetRandomMarks()
			assert.NotEqual(t, first, second)
			assert.Contains(t, []string{PlayerX, PlayerO}, first)
			assert.Contains(t, []string{PlayerX, PlayerO}, second)
		}
	})
}

func TestOpposingMark(t *testing.T) {
	t.Run("Returns the other seat's mark", func(t *testing.T) {
		assert.Equal(t, PlayerO, OpposingMark(PlayerX))
		assert.Equal(t, PlayerX, OpposingMark(PlayerO))
	})
}

func TestBotPlayer(t *testing.T) {
	t.Run("Bot players are recognized by their id prefix", func(t *testing.T) {
		// Given: a bot player and a human player
		botPlayer := NewBotPlayer("game-id", PlayerO)
		humanPlayer := &Player{ID: "d8a1f1f0-0000-0000-0000-000000000000"}

		// Then: only the bot reports itself as a bot
		assert.True(t, botPlayer.IsBot())
		assert.False(t, humanPlayer.IsBot())
		assert.Equal(t, "game-id", botPlayer.GameID)
		assert.Equal(t, PlayerO, botPlayer.Mark)
	})
}
