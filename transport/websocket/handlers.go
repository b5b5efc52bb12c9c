package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dropfourhq/dropfour-backend/internal/apperror"
	"github.com/dropfourhq/dropfour-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to connect player")
	}

	that.registerConnection(player.ID, conn)

	if playerID == player.ID {
		log.Info("player connected", "playerID", player.ID)
	} else {
		log.Info("registered new player", "playerID", player.ID)
	}

	payloadResp := Payload{
		Player: player,
	}

	if err := conn.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	if payloadReq.Game == nil {
		log.Error("game is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "game is required")
	}

	that.registerConnection(payloadReq.Player.ID, conn)

	var game *entity.Game

	if payloadReq.Game.IsPublic() {
		game, err = that.gameUseCase.CreateOrJoinToPublicGame(ctx, payloadReq.Player.ID)
	} else {
		game, err = that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type, payloadReq.Difficulty)
	}

	if err != nil {
		log.Error("failed to create game", "gameType", payloadReq.Game.Type, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player entered game", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		log.Error("game is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "game is required")
	}

	that.registerConnection(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.JoinGameByID(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "gameID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player joined game", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	if payloadReq.Column == nil {
		log.Error("column is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "column is required")
	}

	that.registerConnection(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Column)

	// the final board still goes out to both seats
	if errors.Is(err, apperror.ErrGameFinished) {
		that.broadcastGame(msg.Action, game)

		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)

		return nil
	}

	// a rejected drop is reported only to the seat that tried it
	if isRejectedTurn(err) {
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("game %s: %v", game.ID, err))
	}

	if err != nil {
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("failed to make turn: %v", err))
	}

	that.broadcastGame(msg.Action, game)

	log.Info("player made a turn", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameLeave")

	payloadReq, err := unmarshalPayload(msg)
	if err != nil {
		return err
	}

	if payloadReq.Player == nil {
		log.Error("player is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	that.registerConnection(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to find game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "game doesn't exist")
	}

	if err = that.gameUseCase.EndGame(ctx, game); err != nil {
		log.Error("failed to end game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to leave game")
	}

	that.broadcastGame(payloadActionGameLeave, game)

	log.Info("player left game", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

// broadcastGame sends the game state to every seated human player.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcastGame", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.getConnection(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
		}

		if err := conn.sendMessage(action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

// isRejectedTurn reports whether err is one of the engine's local,
// non-fatal rejections.
func isRejectedTurn(err error) bool {
	return errors.Is(err, apperror.ErrInvalidColumn) ||
		errors.Is(err, apperror.ErrColumnFull) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrGameIsNotStarted)
}

// maskGameDetails hides seat details from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	masked.Type = ""

	return &masked
}

func unmarshalPayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	payload := Payload{Error: errorMsg}
	if err := conn.sendMessage(action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
