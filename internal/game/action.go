package game

import (
	"context"
	"fmt"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// ActionTarget carries the player's choices for a card's action part.
type ActionTarget struct {
	// Token picks the token type for cards that may move any token.
	Token track.TokenType `json:"token,omitempty"`
	// EvidenceID picks the evidence token when one is moved.
	EvidenceID int `json:"evidence_id,omitempty"`
	// Steps limits an evidence move to fewer cells than the card allows.
	// Zero means the full value.
	Steps int `json:"steps,omitempty"`
	// OpponentCardID picks the opponent card to discard. Empty means the
	// last card of the opponent's hand.
	OpponentCardID string `json:"opponent_card_id,omitempty"`
}

// PlayActionPart resolves a card's action part instead of its value part.
// Tokens always move toward the acting player's own edge.
func (e *Engine) PlayActionPart(ctx context.Context, playerID, cardID string, target ActionTarget) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.checkPlayLocked(playerID, cardID)
	if err != nil {
		return err
	}
	player := e.players[playerID]

	switch card.Action.Effect {
	case cards.EffectMoveToken:
		ref, steps, err := e.actionMoveLocked(card, target)
		if err != nil {
			return err
		}
		e.moveNowLocked(ref, steps*player.Role.Side().Direction(), playerID)

	case cards.EffectDiscardOpponentCard:
		opponent := e.players[e.rounds.Other(playerID)]
		victim := target.OpponentCardID
		if victim == "" && len(opponent.Hand) > 0 {
			victim = opponent.Hand[len(opponent.Hand)-1].ID
		}
		if victim != "" {
			if _, ok := discardCard(opponent, victim); !ok {
				return fmt.Errorf("%w: opponent has no card %s", ErrInvalidChoice, victim)
			}
			e.publish(rules.NewEvent(rules.EventCardDiscarded, e.id, opponent.ID, victim))
		}

	default:
		return fmt.Errorf("%w: card %s has no playable action", ErrInvalidChoice, card.ID)
	}

	return e.completePlayLocked(ctx, playerID, cardID)
}

func (e *Engine) actionMoveLocked(card cards.Card, target ActionTarget) (track.Ref, int, error) {
	magnitude := card.Action.Value
	if magnitude < 0 {
		magnitude = -magnitude
	}

	kind := target.Token
	switch card.Action.Target {
	case cards.TargetInitiative:
		kind = track.TokenInitiative
	case cards.TargetPower:
		kind = track.TokenPower
	case cards.TargetEvidence:
		kind = track.TokenEvidence
	case cards.TargetAny:
		if kind == "" {
			return track.Ref{}, 0, fmt.Errorf("%w: choose a token for card %s", ErrInvalidChoice, card.ID)
		}
	default:
		return track.Ref{}, 0, fmt.Errorf("%w: card %s does not move tokens", ErrInvalidChoice, card.ID)
	}

	switch kind {
	case track.TokenInitiative:
		return track.InitiativeRef(), magnitude, nil
	case track.TokenPower:
		return track.PowerRef(), magnitude, nil
	case track.TokenEvidence:
		ev := e.board.EvidenceByID(target.EvidenceID)
		if ev == nil || ev.Owner != "" {
			return track.Ref{}, 0, fmt.Errorf("%w: evidence %d is not in play", ErrInvalidChoice, target.EvidenceID)
		}
		steps := magnitude
		if card.Action.Target == cards.TargetEvidence && target.Steps > 0 && target.Steps < magnitude {
			steps = target.Steps
		}
		return track.EvidenceRef(ev.ID), steps, nil
	default:
		return track.Ref{}, 0, fmt.Errorf("%w: token type %q", ErrInvalidChoice, kind)
	}
}
