package game

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// captureLocked hands a token that landed on an edge to the player whose
// role captures there. Markers return to the center; evidence stays on the
// edge, revealed for the Editor and turned down for Nixon.
func (e *Engine) captureLocked(ref track.Ref, position int) {
	role, ok := cards.RoleForSide(track.SideFor(position))
	if !ok {
		return
	}
	playerID, ok := e.byRole[role]
	if !ok {
		if e.logger != nil {
			e.logger.Warn("no player for capturing role",
				zap.String("game_id", e.id),
				zap.String("role", string(role)),
			)
		}
		return
	}
	player := e.players[playerID]

	switch ref.Type {
	case track.TokenInitiative, track.TokenPower:
		e.board.SetOwner(ref, playerID)
		e.board.SetPosition(ref, track.Center)
		if ref.Type == track.TokenPower {
			player.PowerTokensCaptured++
			if e.powerRemaining > 0 {
				e.powerRemaining--
			}
		}
	case track.TokenEvidence:
		ev := e.board.EvidenceByID(ref.EvidenceID)
		if ev == nil {
			return
		}
		ev.Owner = playerID
		ev.Position = position
		ev.FaceUp = role == cards.RoleEditor
		player.CapturedEvidence = append(player.CapturedEvidence, ev.ID)
	default:
		return
	}
	player.RoundCapturedTokens = append(player.RoundCapturedTokens, ref.Type)

	evt := rules.NewEventWithAmount(rules.EventTokenCaptured, e.id, playerID, ref.String(), position)
	evt.Data = string(ref.Type)
	e.publish(evt)

	if e.logger != nil {
		e.logger.Info("token captured",
			zap.String("game_id", e.id),
			zap.String("token", ref.String()),
			zap.String("player_id", playerID),
			zap.Int("position", position),
			zap.Int("power_remaining", e.powerRemaining),
		)
	}
}

func joinColors(colors []track.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func itoa(v int) string { return strconv.Itoa(v) }
