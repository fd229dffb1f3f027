// Package cards defines the two player roles, the card model and the
// built-in role decks.
package cards

import (
	"fmt"
	"slices"
	"strings"

	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// Role is one of the two opposing sides. Roles are fixed for a game.
type Role string

const (
	// RoleNixon captures at the negative edge and opens the first round.
	RoleNixon Role = "NIXON"
	// RoleEditor captures at the positive edge.
	RoleEditor Role = "EDITOR"
)

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleNixon:
		return RoleNixon, nil
	case RoleEditor:
		return RoleEditor, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Side returns the end of the track the role captures at.
func (r Role) Side() track.Side {
	switch r {
	case RoleNixon:
		return track.SideNegative
	case RoleEditor:
		return track.SidePositive
	default:
		return track.SideNone
	}
}

// Opponent returns the other role.
func (r Role) Opponent() Role {
	if r == RoleNixon {
		return RoleEditor
	}
	return RoleNixon
}

// RoleForSide returns the role capturing at side.
func RoleForSide(side track.Side) (Role, bool) {
	switch side {
	case track.SideNegative:
		return RoleNixon, true
	case track.SidePositive:
		return RoleEditor, true
	default:
		return "", false
	}
}

// EffectType is the secondary effect of a card's action part.
type EffectType string

const (
	EffectMoveToken           EffectType = "moveToken"
	EffectDiscardOpponentCard EffectType = "discardOpponentCard"
)

// ActionTarget narrows which token a moveToken action may move.
type ActionTarget string

const (
	TargetNone       ActionTarget = ""
	TargetInitiative ActionTarget = "initiative"
	TargetPower      ActionTarget = "power"
	TargetEvidence   ActionTarget = "evidence"
	TargetAny        ActionTarget = "any"
)

// ActionPart is the secondary effect printed on a card.
type ActionPart struct {
	Kind        string       `json:"kind,omitempty"`
	Effect      EffectType   `json:"effect"`
	Target      ActionTarget `json:"target,omitempty"`
	Description string       `json:"description"`
	Value       int          `json:"value"`
}

// ValuePart moves a token by Value cells. TokenColors lists which evidence
// colors the card may address; an empty list cannot target evidence.
type ValuePart struct {
	Value       int           `json:"value"`
	TokenColors []track.Color `json:"token_colors,omitempty"`
}

// Card is a single playable card.
type Card struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Action ActionPart `json:"action"`
	Value  ValuePart  `json:"value"`
}

// SupportsColor reports whether the value part may address color.
func (c Card) SupportsColor(color track.Color) bool {
	return slices.Contains(c.Value.TokenColors, color)
}

// CanTargetEvidence reports whether the value part has any color at all.
func (c Card) CanTargetEvidence() bool {
	return len(c.Value.TokenColors) > 0
}

// Clone returns a copy that shares no slices with c.
func (c Card) Clone() Card {
	c.Value.TokenColors = slices.Clone(c.Value.TokenColors)
	return c
}

// CloneAll copies a card list.
func CloneAll(list []Card) []Card {
	if list == nil {
		return nil
	}
	out := make([]Card, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}
