package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(orderedDeck(), DefaultConfig(), zaptest.NewLogger(t))

	first, err := m.CreateGame(testPlayers())
	require.NoError(t, err)
	second, err := m.CreateGame(testPlayers())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 2, m.Count())

	got, err := m.Get(first.ID())
	require.NoError(t, err)
	assert.Same(t, first, got)

	ids := m.List()
	assert.Len(t, ids, 2)
	assert.IsIncreasing(t, ids)

	assert.True(t, m.Remove(first.ID()))
	assert.False(t, m.Remove(first.ID()))
	_, err = m.Get(first.ID())
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, 1, m.Count())
}

func TestManagerRejectsInvalidPlayers(t *testing.T) {
	m := NewManager(orderedDeck(), DefaultConfig(), nil)

	_, err := m.CreateGame([]PlayerSpec{{ID: "a", Role: cards.RoleNixon}})
	assert.ErrorIs(t, err, ErrInvalidPlayers)
	assert.Equal(t, 0, m.Count())
}
