package cards

import "github.com/watergate-game/watergate-server-go/internal/game/track"

var editorDeck = []Card{
	{
		ID:   "editor-1",
		Name: "Reporter's Tenacity",
		Action: ActionPart{
			Kind:        "journalist",
			Effect:      EffectMoveToken,
			Target:      TargetInitiative,
			Description: "Move the Initiative marker 2 cells toward your side",
			Value:       2,
		},
		Value: ValuePart{Value: 3, TokenColors: []track.Color{track.ColorBlue, track.ColorGreen}},
	},
	{
		ID:   "editor-2",
		Name: "Classified Documents",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetEvidence,
			Description: "Move one evidence token up to 3 cells",
			Value:       3,
		},
		Value: ValuePart{Value: 4, TokenColors: []track.Color{track.ColorRed}},
	},
	{
		ID:   "editor-3",
		Name: "Undercover Investigation",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetAny,
			Description: "Move any token 2 cells toward your side",
			Value:       2,
		},
		Value: ValuePart{Value: 2, TokenColors: []track.Color{track.ColorRed, track.ColorBlue}},
	},
	{
		ID:   "editor-4",
		Name: "Wiretap Records",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectDiscardOpponentCard,
			Description: "Look at your opponent's hand and discard one card",
			Value:       1,
		},
		Value: ValuePart{Value: 5, TokenColors: []track.Color{track.ColorBlue}},
	},
	{
		ID:   "editor-5",
		Name: "Deep Throat",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetPower,
			Description: "Move the Power token 1 cell toward your side",
			Value:       1,
		},
		Value: ValuePart{Value: 1, TokenColors: []track.Color{track.ColorGreen, track.ColorRed}},
	},
}

var nixonDeck = []Card{
	{
		ID:   "nixon-1",
		Name: "Official Explanation",
		Action: ActionPart{
			Kind:        "government",
			Effect:      EffectMoveToken,
			Target:      TargetInitiative,
			Description: "Move the Initiative marker 2 cells toward your side",
			Value:       2,
		},
		Value: ValuePart{Value: -3, TokenColors: []track.Color{track.ColorBlue, track.ColorGreen}},
	},
	{
		ID:   "nixon-2",
		Name: "Secrecy Order",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetEvidence,
			Description: "Move one evidence token up to 3 cells",
			Value:       3,
		},
		Value: ValuePart{Value: -4, TokenColors: []track.Color{track.ColorRed}},
	},
	{
		ID:   "nixon-3",
		Name: "Media Manipulation",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetAny,
			Description: "Move any token 2 cells toward your side",
			Value:       2,
		},
		Value: ValuePart{Value: -2, TokenColors: []track.Color{track.ColorRed, track.ColorBlue}},
	},
	{
		ID:   "nixon-4",
		Name: "Cover-up",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectDiscardOpponentCard,
			Description: "Look at your opponent's hand and discard one card",
			Value:       1,
		},
		Value: ValuePart{Value: -5, TokenColors: []track.Color{track.ColorBlue}},
	},
	{
		ID:   "nixon-5",
		Name: "Public Denial",
		Action: ActionPart{
			Kind:        "event",
			Effect:      EffectMoveToken,
			Target:      TargetPower,
			Description: "Move the Power token 1 cell toward your side",
			Value:       1,
		},
		Value: ValuePart{Value: -1, TokenColors: []track.Color{track.ColorGreen, track.ColorRed}},
	},
}

// Deck returns a copy of the built-in deck for role.
func Deck(role Role) []Card {
	switch role {
	case RoleNixon:
		return CloneAll(nixonDeck)
	case RoleEditor:
		return CloneAll(editorDeck)
	default:
		return nil
	}
}
