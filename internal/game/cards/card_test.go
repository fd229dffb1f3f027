package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

func TestRoleSides(t *testing.T) {
	assert.Equal(t, track.SideNegative, RoleNixon.Side())
	assert.Equal(t, track.SidePositive, RoleEditor.Side())
	assert.Equal(t, RoleEditor, RoleNixon.Opponent())
	assert.Equal(t, RoleNixon, RoleEditor.Opponent())

	role, ok := RoleForSide(track.SidePositive)
	require.True(t, ok)
	assert.Equal(t, RoleEditor, role)

	_, ok = RoleForSide(track.SideNone)
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("nixon")
	require.NoError(t, err)
	assert.Equal(t, RoleNixon, role)

	_, err = ParseRole("senator")
	assert.Error(t, err)
}

func TestDeckValuesPointTowardOwnEdge(t *testing.T) {
	for _, role := range []Role{RoleNixon, RoleEditor} {
		deck := Deck(role)
		require.Len(t, deck, 5)
		for _, c := range deck {
			assert.Equal(t, role.Side().Direction(), sign(c.Value.Value), "card %s", c.ID)
			assert.True(t, c.CanTargetEvidence(), "card %s", c.ID)
		}
	}
}

func TestDeckReturnsCopies(t *testing.T) {
	deck := Deck(RoleEditor)
	deck[0].Value.TokenColors[0] = track.ColorRed
	deck[0].Name = "changed"

	fresh := Deck(RoleEditor)
	assert.Equal(t, "Reporter's Tenacity", fresh[0].Name)
	assert.Equal(t, track.ColorBlue, fresh[0].Value.TokenColors[0])
}

func TestSupportsColor(t *testing.T) {
	c := Card{ID: "x", Value: ValuePart{Value: 2, TokenColors: []track.Color{track.ColorRed}}}
	assert.True(t, c.SupportsColor(track.ColorRed))
	assert.False(t, c.SupportsColor(track.ColorGreen))

	blank := Card{ID: "y", Value: ValuePart{Value: 1}}
	assert.False(t, blank.CanTargetEvidence())
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
