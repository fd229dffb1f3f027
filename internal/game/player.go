package game

import (
	"slices"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// PlayerSpec registers a player with a role at game creation.
type PlayerSpec struct {
	ID   string     `json:"id"`
	Role cards.Role `json:"role"`
}

// Player is the engine's record of one participant. Hands are replaced on
// every deal; captures and discards accumulate over the game except
// RoundCapturedTokens, which is emptied at each Evaluation phase.
type Player struct {
	ID                  string
	Role                cards.Role
	Hand                []cards.Card
	DiscardedCards      []cards.Card
	ExcludedCards       []cards.Card
	RoundCapturedTokens []track.TokenType
	PowerTokensCaptured int
	CapturedEvidence    []int
	RemainingDeckCards  int
}

func newPlayer(spec PlayerSpec, deckSize int) *Player {
	return &Player{
		ID:                 spec.ID,
		Role:               spec.Role,
		RemainingDeckCards: deckSize,
	}
}

// card returns the card with id from the hand.
func (p *Player) card(id string) (cards.Card, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return cards.Card{}, false
}

// discardCard moves a card from the hand to the discard pile. Unknown ids
// leave the player untouched.
func discardCard(p *Player, cardID string) (cards.Card, bool) {
	i := slices.IndexFunc(p.Hand, func(c cards.Card) bool { return c.ID == cardID })
	if i < 0 {
		return cards.Card{}, false
	}
	card := p.Hand[i]
	p.Hand = slices.Delete(p.Hand, i, i+1)
	p.DiscardedCards = append(p.DiscardedCards, card)
	return card, true
}
