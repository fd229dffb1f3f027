package track

import (
	"fmt"
	"slices"
	"strings"
)

// TokenType is the kind of token on the track.
type TokenType string

const (
	TokenInitiative TokenType = "initiative"
	TokenPower      TokenType = "power"
	TokenEvidence   TokenType = "evidence"
)

// ParseTokenType converts a wire value into a TokenType.
func ParseTokenType(value string) (TokenType, error) {
	switch TokenType(strings.ToLower(strings.TrimSpace(value))) {
	case TokenInitiative:
		return TokenInitiative, nil
	case TokenPower:
		return TokenPower, nil
	case TokenEvidence:
		return TokenEvidence, nil
	default:
		return "", fmt.Errorf("unknown token type %q", value)
	}
}

// Color tags evidence tokens and card value parts.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorGreen Color = "green"
)

// DisplayGray is shown for face-down evidence.
const DisplayGray = "gray"

// ParseColor converts a wire value into a Color.
func ParseColor(value string) (Color, error) {
	switch Color(strings.ToLower(strings.TrimSpace(value))) {
	case ColorRed:
		return ColorRed, nil
	case ColorBlue:
		return ColorBlue, nil
	case ColorGreen:
		return ColorGreen, nil
	default:
		return "", fmt.Errorf("unknown color %q", value)
	}
}

// Marker is one of the two singleton tokens, Initiative and Power.
type Marker struct {
	Type     TokenType
	Label    string
	Position int
	Owner    string
}

// Evidence is a collectible token with one or two colors and a hidden
// identity until it is turned face-up.
type Evidence struct {
	ID       int
	Colors   []Color
	FaceUp   bool
	Position int
	Owner    string
}

// HasColor reports whether the token carries color.
func (e Evidence) HasColor(color Color) bool {
	return slices.Contains(e.Colors, color)
}

// DisplayColors is what an observer may see: gray while face-down.
func (e Evidence) DisplayColors() []string {
	if !e.FaceUp {
		return []string{DisplayGray}
	}
	out := make([]string, len(e.Colors))
	for i, c := range e.Colors {
		out[i] = string(c)
	}
	return out
}

// Ref addresses a token on the board.
type Ref struct {
	Type       TokenType
	EvidenceID int
}

// InitiativeRef addresses the Initiative marker.
func InitiativeRef() Ref { return Ref{Type: TokenInitiative} }

// PowerRef addresses the Power marker.
func PowerRef() Ref { return Ref{Type: TokenPower} }

// EvidenceRef addresses the evidence token with the given id.
func EvidenceRef(id int) Ref { return Ref{Type: TokenEvidence, EvidenceID: id} }

func (r Ref) String() string {
	if r.Type == TokenEvidence {
		return fmt.Sprintf("evidence#%d", r.EvidenceID)
	}
	return string(r.Type)
}
