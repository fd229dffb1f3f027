// Package track models the investigation track: an 11-cell line running from
// -5 (the Nixon capture edge) to +5 (the Editor capture edge), and the tokens
// that move along it.
package track

import "fmt"

const (
	// MinPosition is the negative capture edge.
	MinPosition = -5
	// MaxPosition is the positive capture edge.
	MaxPosition = 5
	// Center is the neutral cell every marker returns to.
	Center = 0
)

// Side identifies one end of the track.
type Side int

const (
	SideNone Side = iota
	SideNegative
	SidePositive
)

var sideNames = map[Side]string{
	SideNone:     "NONE",
	SideNegative: "NEGATIVE",
	SidePositive: "POSITIVE",
}

func (s Side) String() string {
	if name, ok := sideNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SIDE_%d", int(s))
}

// Direction returns the sign of a step toward this side (0 for SideNone).
func (s Side) Direction() int {
	switch s {
	case SideNegative:
		return -1
	case SidePositive:
		return 1
	default:
		return 0
	}
}

// Edge returns the capture position of this side.
func (s Side) Edge() int {
	return s.Direction() * MaxPosition
}

// Clamp limits position to [MinPosition, MaxPosition].
func Clamp(position int) int {
	if position < MinPosition {
		return MinPosition
	}
	if position > MaxPosition {
		return MaxPosition
	}
	return position
}

// IsAtCaptureEdge reports whether position sits on either capture edge.
func IsAtCaptureEdge(position int) bool {
	return position <= MinPosition || position >= MaxPosition
}

// SideFor maps a capture-edge position to the side that captures it.
// Positions off the edges return SideNone.
func SideFor(position int) Side {
	switch {
	case position <= MinPosition:
		return SideNegative
	case position >= MaxPosition:
		return SidePositive
	default:
		return SideNone
	}
}

// RestingSide reports which half of the track position lies on.
// The center belongs to neither side.
func RestingSide(position int) Side {
	switch {
	case position < Center:
		return SideNegative
	case position > Center:
		return SidePositive
	default:
		return SideNone
	}
}
