package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game"
	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

var (
	ErrNotSeated         = errors.New("client has not joined a game")
	ErrUnknownMessage    = errors.New("unknown message type")
	ErrNotSelectionOwner = errors.New("the open selection belongs to the other player")
)

type createGameData struct {
	Players []struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"players"`
}

type cardData struct {
	CardID string `json:"card_id"`
}

type playActionData struct {
	CardID string            `json:"card_id"`
	Target game.ActionTarget `json:"target"`
}

type moveTokenData struct {
	Token      string `json:"token"`
	EvidenceID int    `json:"evidence_id"`
	Steps      int    `json:"steps"`
}

type flipTokenData struct {
	TokenID int `json:"token_id"`
}

type autoProgressData struct {
	Enabled bool `json:"enabled"`
}

type skipTurnData struct {
	Token string `json:"token"`
}

type replayData struct {
	Index int `json:"index"`
}

// ReplayState is the payload of a replay_state message.
type ReplayState struct {
	Index int            `json:"index"`
	Size  int            `json:"size"`
	State *game.Snapshot `json:"state"`
}

// seat is the engine and player a client acts as.
type seat struct {
	engine   *game.Engine
	gameID   string
	playerID string
}

// handleMessage dispatches one inbound message. A returned error is sent
// back to the sender only; state changes are broadcast to every client of
// the game.
func (h *Hub) handleMessage(client *Client, msg inboundMessage) error {
	ctx := h.ctx
	h.debug("message received", zap.String("type", msg.Type), zap.String("game_id", msg.GameID))

	switch msg.Type {
	case "create_game":
		return h.createGame(client, msg)
	case "join_game":
		return h.joinGame(client, msg)
	case "get_state":
		return h.sendState(client)
	}

	s, err := h.seatOf(client)
	if err != nil {
		return err
	}

	switch msg.Type {
	case "start_round":
		err = s.engine.StartNewRound(ctx)
	case "start_preparation":
		err = s.engine.StartPreparationPhase(ctx)
	case "start_card_phase":
		err = s.engine.StartCardPhase()
	case "start_evaluation":
		err = s.engine.StartEvaluationPhase(ctx)

	case "end_turn":
		if err = requireTurn(s); err == nil {
			err = s.engine.EndTurn(ctx)
		}

	case "play_card":
		var data cardData
		if err = decode(msg.Data, &data); err == nil {
			err = s.engine.PlayCard(ctx, s.playerID, data.CardID)
		}
	case "play_value":
		var data cardData
		if err = decode(msg.Data, &data); err == nil {
			_, err = s.engine.PlayValuePart(s.playerID, data.CardID)
		}
	case "select_type":
		var choice game.TypeChoice
		if err = decode(msg.Data, &choice); err == nil {
			if err = requireSelection(s); err == nil {
				_, err = s.engine.SelectTokenType(ctx, choice)
			}
		}
	case "select_action":
		var choice game.ActionChoice
		if err = decode(msg.Data, &choice); err == nil {
			if err = requireSelection(s); err == nil {
				_, err = s.engine.SelectAction(ctx, choice)
			}
		}
	case "back":
		if err = requireSelection(s); err == nil {
			_, err = s.engine.BackToTypeSelection()
		}
	case "cancel":
		if err = requireSelection(s); err == nil {
			err = s.engine.CancelSelection()
		}
	case "play_action":
		var data playActionData
		if err = decode(msg.Data, &data); err == nil {
			err = s.engine.PlayActionPart(ctx, s.playerID, data.CardID, data.Target)
		}

	case "move_token":
		var data moveTokenData
		if err = decode(msg.Data, &data); err == nil {
			err = h.moveToken(s, data)
		}
		// the animation broadcasts state when the move lands
		return err
	case "flip_token":
		var data flipTokenData
		if err = decode(msg.Data, &data); err == nil {
			s.engine.FlipTokenFaceUp(data.TokenID)
		}
	case "set_auto_progress":
		var data autoProgressData
		if err = decode(msg.Data, &data); err == nil {
			s.engine.SetAutoProgress(data.Enabled)
		}
	case "get_replay":
		data := replayData{Index: -1}
		if len(msg.Data) > 0 {
			if err = decode(msg.Data, &data); err != nil {
				return err
			}
		}
		return h.sendReplay(client, s, data.Index)
	case "skip_turn":
		var data skipTurnData
		if err = decode(msg.Data, &data); err == nil {
			if err = h.devtools.Authorize(data.Token); err == nil {
				err = s.engine.SkipCurrentTurn(ctx)
			}
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}

	if err == nil || changedState(err) {
		h.broadcastState(s.gameID)
	}
	if err != nil && h.logger != nil {
		h.logger.Debug("operation rejected",
			zap.String("type", msg.Type),
			zap.String("game_id", s.gameID),
			zap.String("player_id", s.playerID),
			zap.Error(err),
		)
	}
	return err
}

// changedState reports whether a failed operation still moved the game
// forward. A deal failure at the end of an auto-progress chain leaves the
// earlier phases applied.
func changedState(err error) bool {
	var dealErr *game.DealError
	return errors.As(err, &dealErr)
}

func (h *Hub) createGame(client *Client, msg inboundMessage) error {
	var data createGameData
	if err := decode(msg.Data, &data); err != nil {
		return err
	}
	specs := make([]game.PlayerSpec, 0, len(data.Players))
	seated := false
	for _, p := range data.Players {
		role, err := cards.ParseRole(p.Role)
		if err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		specs = append(specs, game.PlayerSpec{ID: p.ID, Role: role})
		seated = seated || p.ID == msg.PlayerID
	}
	if !seated {
		return fmt.Errorf("create game: creator %q: %w", msg.PlayerID, game.ErrUnknownPlayer)
	}

	engine, err := h.manager.CreateGame(specs)
	if err != nil {
		return err
	}
	client.bind(engine.ID(), msg.PlayerID)

	if h.logger != nil {
		h.logger.Info("game created via websocket",
			zap.String("game_id", engine.ID()),
			zap.String("player_id", msg.PlayerID),
		)
	}
	return h.sendState(client)
}

func (h *Hub) joinGame(client *Client, msg inboundMessage) error {
	engine, err := h.manager.Get(msg.GameID)
	if err != nil {
		return err
	}
	if !slices.Contains(engine.Players(), msg.PlayerID) {
		return fmt.Errorf("join game %s: %w", msg.GameID, game.ErrUnknownPlayer)
	}
	client.bind(engine.ID(), msg.PlayerID)
	return h.sendState(client)
}

func (h *Hub) seatOf(client *Client) (seat, error) {
	gameID, playerID := client.identity()
	if gameID == "" {
		return seat{}, ErrNotSeated
	}
	engine, err := h.manager.Get(gameID)
	if err != nil {
		return seat{}, err
	}
	return seat{engine: engine, gameID: gameID, playerID: playerID}, nil
}

// moveToken starts a presentation move and hands it to the animator.
// Rejected requests are silent, matching the engine.
func (h *Hub) moveToken(s seat, data moveTokenData) error {
	tokenType, err := track.ParseTokenType(data.Token)
	if err != nil {
		return err
	}
	ref := track.Ref{Type: tokenType}
	if tokenType == track.TokenEvidence {
		ref.EvidenceID = data.EvidenceID
	}

	m, ok := s.engine.MoveToken(ref, data.Steps)
	if !ok {
		return nil
	}
	h.animate(s.gameID, m)
	return nil
}

// sendReplay answers the requester with one recorded phase transition as
// that player may see it. A negative index selects the latest one.
func (h *Hub) sendReplay(client *Client, s seat, index int) error {
	state, size, err := s.engine.ReplayView(s.playerID, index)
	if err != nil {
		return err
	}
	if index < 0 {
		index = size - 1
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[client] {
		h.deliver(client, WSMessage{
			Type:     "replay_state",
			GameID:   s.gameID,
			PlayerID: s.playerID,
			Data:     ReplayState{Index: index, Size: size, State: state},
		})
	}
	return nil
}

func requireTurn(s seat) error {
	if s.engine.CurrentPlayer() != s.playerID {
		return game.ErrNotYourTurn
	}
	return nil
}

func requireSelection(s seat) error {
	sel, ok := s.engine.Selection()
	if !ok {
		return game.ErrNoSelection
	}
	if sel.PlayerID != s.playerID {
		return ErrNotSelectionOwner
	}
	return nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing message data")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode message data: %w", err)
	}
	return nil
}
