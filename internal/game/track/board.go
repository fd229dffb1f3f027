package track

import "slices"

// Board holds every token of a game. It performs no validation beyond
// keeping positions on the track; rule decisions belong to the engine.
type Board struct {
	Initiative Marker
	Power      Marker
	Evidence   []Evidence
}

// NewBoard creates a board with both markers centered and the given
// evidence set. Evidence positions are clamped.
func NewBoard(evidence []Evidence) *Board {
	b := &Board{
		Initiative: Marker{Type: TokenInitiative, Label: "I", Position: Center},
		Power:      Marker{Type: TokenPower, Label: "P", Position: Center},
		Evidence:   make([]Evidence, len(evidence)),
	}
	for i, e := range evidence {
		e.Colors = slices.Clone(e.Colors)
		e.Position = Clamp(e.Position)
		b.Evidence[i] = e
	}
	return b
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	out := &Board{
		Initiative: b.Initiative,
		Power:      b.Power,
		Evidence:   make([]Evidence, len(b.Evidence)),
	}
	for i, e := range b.Evidence {
		e.Colors = slices.Clone(e.Colors)
		out.Evidence[i] = e
	}
	return out
}

func (b *Board) marker(t TokenType) *Marker {
	switch t {
	case TokenInitiative:
		return &b.Initiative
	case TokenPower:
		return &b.Power
	default:
		return nil
	}
}

// EvidenceByID returns a pointer to the evidence token, or nil.
func (b *Board) EvidenceByID(id int) *Evidence {
	for i := range b.Evidence {
		if b.Evidence[i].ID == id {
			return &b.Evidence[i]
		}
	}
	return nil
}

// Position returns the current cell of the referenced token.
func (b *Board) Position(ref Ref) (int, bool) {
	if m := b.marker(ref.Type); m != nil {
		return m.Position, true
	}
	if ref.Type == TokenEvidence {
		if e := b.EvidenceByID(ref.EvidenceID); e != nil {
			return e.Position, true
		}
	}
	return 0, false
}

// SetPosition moves the referenced token, clamping to the track.
func (b *Board) SetPosition(ref Ref, position int) bool {
	position = Clamp(position)
	if m := b.marker(ref.Type); m != nil {
		m.Position = position
		return true
	}
	if ref.Type == TokenEvidence {
		if e := b.EvidenceByID(ref.EvidenceID); e != nil {
			e.Position = position
			return true
		}
	}
	return false
}

// Owner returns the owner of the referenced token ("" when unowned).
func (b *Board) Owner(ref Ref) string {
	if m := b.marker(ref.Type); m != nil {
		return m.Owner
	}
	if e := b.EvidenceByID(ref.EvidenceID); ref.Type == TokenEvidence && e != nil {
		return e.Owner
	}
	return ""
}

// SetOwner assigns the referenced token to playerID.
func (b *Board) SetOwner(ref Ref, playerID string) bool {
	if m := b.marker(ref.Type); m != nil {
		m.Owner = playerID
		return true
	}
	if ref.Type == TokenEvidence {
		if e := b.EvidenceByID(ref.EvidenceID); e != nil {
			e.Owner = playerID
			return true
		}
	}
	return false
}

// ResetMarkers returns Initiative and Power to the center, unowned.
func (b *Board) ResetMarkers() {
	b.Initiative.Position, b.Initiative.Owner = Center, ""
	b.Power.Position, b.Power.Owner = Center, ""
}

// Flip turns an evidence token face-up.
func (b *Board) Flip(id int) bool {
	e := b.EvidenceByID(id)
	if e == nil {
		return false
	}
	e.FaceUp = true
	return true
}

// FindFaceDown returns the first unowned face-down token carrying color.
func (b *Board) FindFaceDown(color Color) (int, bool) {
	for _, e := range b.Evidence {
		if !e.FaceUp && e.Owner == "" && e.HasColor(color) {
			return e.ID, true
		}
	}
	return 0, false
}

// FindFaceUp returns the first unowned face-up token carrying color.
func (b *Board) FindFaceUp(color Color) (int, bool) {
	ids := b.FaceUpUnowned(color)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// FaceUpUnowned lists unowned face-up tokens carrying color.
func (b *Board) FaceUpUnowned(color Color) []int {
	var ids []int
	for _, e := range b.Evidence {
		if e.FaceUp && e.Owner == "" && e.HasColor(color) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// HasFaceDown reports whether any unowned face-down token remains.
func (b *Board) HasFaceDown() bool {
	for _, e := range b.Evidence {
		if !e.FaceUp && e.Owner == "" {
			return true
		}
	}
	return false
}
