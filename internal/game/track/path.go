package track

import "iter"

// Path is the finite sequence of unit steps a token takes from its current
// cell to a clamped destination. It is a value type: iterating it never
// consumes it, so it can be replayed as often as a presentation layer needs.
type Path struct {
	from int
	to   int
}

// NewPath builds the path of a token at from moving steps cells.
// The destination is clamped to the track.
func NewPath(from, steps int) Path {
	return Path{from: from, to: Clamp(from + steps)}
}

// From returns the starting cell.
func (p Path) From() int { return p.from }

// To returns the clamped destination cell.
func (p Path) To() int { return p.to }

// Len returns the number of unit steps in the path.
func (p Path) Len() int {
	if p.to >= p.from {
		return p.to - p.from
	}
	return p.from - p.to
}

// Empty reports whether the path moves the token at all.
func (p Path) Empty() bool { return p.from == p.to }

// Direction returns -1, 0 or +1.
func (p Path) Direction() int {
	switch {
	case p.to > p.from:
		return 1
	case p.to < p.from:
		return -1
	default:
		return 0
	}
}

// At returns the cell reached after the i-th step (1-based).
// Out-of-range indices are clamped to the path ends.
func (p Path) At(i int) int {
	if i <= 0 {
		return p.from
	}
	if i >= p.Len() {
		return p.to
	}
	return p.from + i*p.Direction()
}

// Steps yields every intermediate cell in order, ending at To.
func (p Path) Steps() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 1; i <= p.Len(); i++ {
			if !yield(p.At(i)) {
				return
			}
		}
	}
}

// Positions returns the cells yielded by Steps as a slice.
func (p Path) Positions() []int {
	positions := make([]int, 0, p.Len())
	for pos := range p.Steps() {
		positions = append(positions, pos)
	}
	return positions
}
