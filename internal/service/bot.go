package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/dropfourhq/dropfour-backend/internal/apperror"
	"github.com/dropfourhq/dropfour-backend/internal/entity"
	"github.com/dropfourhq/dropfour-backend/internal/gravity"
)

var ErrBotNotFound = errors.New("bot player not found")

// Named difficulties exposed to clients, mapped onto the skill knob.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	skillEasy   = 0.25
	skillMedium = 0.6
	skillHard   = 0.95
)

type BotService interface {
	SelectColumn(game *entity.Game, skill float64) (int, error)
	MakeTurn(game *entity.Game) error
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// SelectColumn picks the column for the mark whose turn it is.
// A winning drop is always taken, then a drop that blocks the opponent's
// winning reply; after that skill decides between a random legal column
// (probability 1-skill) and the leftmost legal column.
func (that *botService) SelectColumn(game *entity.Game, skill float64) (int, error) {
	validColumns := gravity.ValidColumns(game)
	if len(validColumns) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	mark := game.Turn
	for _, column := range validColumns {
		if gravity.WinsNext(game, mark, column) {
			return column, nil
		}
	}

	opponent := entity.OpposingMark(mark)
	for _, column := range validColumns {
		if gravity.WinsNext(game, opponent, column) {
			return column, nil
		}
	}

	if skill < 0 {
		skill = 0
	}
	if skill > 1 {
		skill = 1
	}

	if rand.Float64() >= skill { //nolint: gosec // it's ok
		return validColumns[rand.Intn(len(validColumns))], nil //nolint: gosec // it's ok
	}

	return validColumns[0], nil
}

func (that *botService) MakeTurn(game *entity.Game) error {
	var botPlayer *entity.Player
	for _, player := range game.Players {
		if player.IsBot() {
			botPlayer = player
			break
		}
	}

	if botPlayer == nil {
		return ErrBotNotFound
	}

	column, err := that.SelectColumn(game, game.BotSkill)
	if err != nil {
		return fmt.Errorf("bot failed to select column: %w", err)
	}

	if err := gravity.Drop(game, botPlayer.Mark, column); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// ParseSkill maps a named difficulty onto the skill knob.
// Defaults to medium if invalid or empty.
func ParseSkill(difficulty string) float64 {
	switch difficulty {
	case DifficultyEasy:
		return skillEasy
	case DifficultyHard:
		return skillHard
	default:
		return skillMedium
	}
}
