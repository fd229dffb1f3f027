package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	cases := map[int]int{-9: -5, -5: -5, -1: -1, 0: 0, 4: 4, 5: 5, 7: 5}
	for in, want := range cases {
		assert.Equal(t, want, Clamp(in), "Clamp(%d)", in)
		assert.Equal(t, Clamp(in), Clamp(Clamp(in)), "clamp must be idempotent for %d", in)
	}
}

func TestCaptureEdges(t *testing.T) {
	assert.True(t, IsAtCaptureEdge(-5))
	assert.True(t, IsAtCaptureEdge(5))
	assert.False(t, IsAtCaptureEdge(0))
	assert.False(t, IsAtCaptureEdge(4))
	assert.False(t, IsAtCaptureEdge(-4))

	assert.Equal(t, SideNegative, SideFor(-5))
	assert.Equal(t, SidePositive, SideFor(5))
	assert.Equal(t, SideNone, SideFor(0))
	assert.Equal(t, SideNone, SideFor(3))

	assert.Equal(t, -5, SideNegative.Edge())
	assert.Equal(t, 5, SidePositive.Edge())
	assert.Equal(t, "POSITIVE", SidePositive.String())
}

func TestRestingSide(t *testing.T) {
	assert.Equal(t, SideNegative, RestingSide(-2))
	assert.Equal(t, SidePositive, RestingSide(1))
	assert.Equal(t, SideNone, RestingSide(0))
}

func TestPathForward(t *testing.T) {
	p := NewPath(0, 3)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 1, p.Direction())
	assert.Equal(t, []int{1, 2, 3}, p.Positions())

	// A path can be walked again without being consumed.
	assert.Equal(t, []int{1, 2, 3}, p.Positions())
}

func TestPathClampsDestination(t *testing.T) {
	p := NewPath(4, 3)
	assert.Equal(t, 5, p.To())
	assert.Equal(t, []int{5}, p.Positions())

	back := NewPath(-3, -4)
	assert.Equal(t, -5, back.To())
	assert.Equal(t, []int{-4, -5}, back.Positions())
}

func TestPathAtBoundaryIsEmpty(t *testing.T) {
	p := NewPath(-5, -1)
	assert.True(t, p.Empty())
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Positions())
}

func TestPathStepsStopsEarly(t *testing.T) {
	var seen []int
	for pos := range NewPath(0, -4).Steps() {
		seen = append(seen, pos)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []int{-1, -2}, seen)
}

func TestParseTokenTypeAndColor(t *testing.T) {
	tt, err := ParseTokenType(" Power ")
	require.NoError(t, err)
	assert.Equal(t, TokenPower, tt)

	_, err = ParseTokenType("bishop")
	assert.Error(t, err)

	c, err := ParseColor("RED")
	require.NoError(t, err)
	assert.Equal(t, ColorRed, c)

	_, err = ParseColor("purple")
	assert.Error(t, err)
}

func TestEvidenceDisplayColors(t *testing.T) {
	e := Evidence{ID: 1, Colors: []Color{ColorRed, ColorBlue}}
	assert.Equal(t, []string{DisplayGray}, e.DisplayColors())

	e.FaceUp = true
	assert.Equal(t, []string{"red", "blue"}, e.DisplayColors())
	assert.True(t, e.HasColor(ColorBlue))
	assert.False(t, e.HasColor(ColorGreen))
}

func TestBoardQueries(t *testing.T) {
	b := NewBoard([]Evidence{
		{ID: 1, Colors: []Color{ColorRed}},
		{ID: 2, Colors: []Color{ColorBlue}, FaceUp: true},
		{ID: 3, Colors: []Color{ColorGreen, ColorRed}, FaceUp: true, Owner: "p1", Position: 9},
	})

	assert.Equal(t, 5, b.EvidenceByID(3).Position, "positions are clamped on setup")

	id, ok := b.FindFaceDown(ColorRed)
	require.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = b.FindFaceDown(ColorBlue)
	assert.False(t, ok)

	id, ok = b.FindFaceUp(ColorBlue)
	require.True(t, ok)
	assert.Equal(t, 2, id)

	// Owned tokens are out of play.
	assert.Empty(t, b.FaceUpUnowned(ColorGreen))

	require.True(t, b.Flip(1))
	assert.False(t, b.HasFaceDown())
	assert.False(t, b.Flip(42))
}

func TestBoardPositionsAndOwners(t *testing.T) {
	b := NewBoard([]Evidence{{ID: 7, Colors: []Color{ColorGreen}}})

	require.True(t, b.SetPosition(PowerRef(), 12))
	pos, ok := b.Position(PowerRef())
	require.True(t, ok)
	assert.Equal(t, 5, pos)

	require.True(t, b.SetOwner(EvidenceRef(7), "p2"))
	assert.Equal(t, "p2", b.Owner(EvidenceRef(7)))

	_, ok = b.Position(EvidenceRef(8))
	assert.False(t, ok)
	assert.False(t, b.SetPosition(EvidenceRef(8), 1))

	b.SetOwner(InitiativeRef(), "p1")
	b.SetPosition(InitiativeRef(), 3)
	b.ResetMarkers()
	assert.Equal(t, Marker{Type: TokenInitiative, Label: "I"}, b.Initiative)
	assert.Equal(t, "", b.Power.Owner)

	clone := b.Clone()
	clone.Evidence[0].Colors[0] = ColorRed
	assert.Equal(t, ColorGreen, b.Evidence[0].Colors[0])
}
