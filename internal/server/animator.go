package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// TokenStep is the payload of a token_step message.
type TokenStep struct {
	Token      track.TokenType `json:"token"`
	EvidenceID int             `json:"evidence_id,omitempty"`
	Position   int             `json:"position"`
	Done       bool            `json:"done"`
}

// animate ticks m until it completes, broadcasting every cell. The move
// is finished at once when the hub is closed so the engine never keeps
// a dangling move.
func (h *Hub) animate(gameID string, m *game.Move) {
	if !h.track(&h.animations) {
		m.Finish()
		return
	}
	go func() {
		defer h.animations.Done()
		defer h.broadcastState(gameID)

		ref := m.Ref()
		if h.interval <= 0 {
			pos := m.Finish()
			h.broadcast(gameID, stepMessage(gameID, ref, pos, true))
			return
		}

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.ctx.Done():
				pos := m.Finish()
				h.debug("move finished on shutdown",
					zap.String("game_id", gameID),
					zap.String("token", ref.String()),
					zap.Int("position", pos),
				)
				return
			case <-ticker.C:
				pos, more := m.Step()
				h.broadcast(gameID, stepMessage(gameID, ref, pos, !more))
				if !more {
					return
				}
			}
		}
	}()
}

func stepMessage(gameID string, ref track.Ref, pos int, done bool) WSMessage {
	return WSMessage{
		Type:   "token_step",
		GameID: gameID,
		Data: TokenStep{
			Token:      ref.Type,
			EvidenceID: ref.EvidenceID,
			Position:   pos,
			Done:       done,
		},
	}
}
