package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

func TestSnapshotIsDetached(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	require.NoError(t, e.StartPreparationPhase(context.Background()))

	s := e.Snapshot()
	nixon, _ := s.Player(nixonID)
	nixon.Hand[0].Name = "tampered"
	s.Evidence[0].Colors[0] = track.ColorGreen

	fresh := e.Snapshot()
	nixon, _ = fresh.Player(nixonID)
	assert.NotEqual(t, "tampered", nixon.Hand[0].Name)
	assert.Equal(t, track.ColorRed, fresh.Evidence[0].Colors[0])
}

func TestViewHidesOpponentState(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	require.True(t, e.FlipTokenFaceUp(2))
	_, err := e.PlayValuePart(nixonID, "nixon-1")
	require.NoError(t, err)

	view, err := e.View(editorID)
	require.NoError(t, err)

	nixon, _ := view.Player(nixonID)
	assert.Empty(t, nixon.Hand)
	assert.Equal(t, 5, nixon.HandSize)
	editor, _ := view.Player(editorID)
	assert.Len(t, editor.Hand, 4)
	assert.Len(t, editor.ExcludedCards, 1)
	assert.Nil(t, view.Selection, "opponent selection is private")

	red, _ := view.EvidenceToken(1)
	assert.Empty(t, red.Colors)
	assert.Equal(t, []string{"gray"}, red.DisplayColors)
	blue, _ := view.EvidenceToken(2)
	assert.Equal(t, []track.Color{track.ColorBlue}, blue.Colors)

	own, err := e.View(nixonID)
	require.NoError(t, err)
	require.NotNil(t, own.Selection)
	assert.Equal(t, "nixon-1", own.Selection.CardID)
	assert.Equal(t, own.Checksum, view.Checksum)
	assert.Equal(t, e.Snapshot().Checksum, view.Checksum)

	_, err = e.View("mitchell")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestSnapshotCountsTokenMoves(t *testing.T) {
	e := newTestEngine(t)

	for range 2 {
		m, ok := e.MoveToken(track.PowerRef(), 1)
		require.True(t, ok)
		m.Finish()
	}
	m, ok := e.MoveToken(track.EvidenceRef(1), -1)
	require.True(t, ok)
	m.Finish()

	s := e.Snapshot()
	assert.Equal(t, 2, s.Power.Moves)
	assert.Equal(t, 0, s.Initiative.Moves)
	red, _ := s.EvidenceToken(1)
	assert.Equal(t, 1, red.Moves)
	assert.Equal(t, e.CompletedMoves(track.PowerRef()), s.Power.Moves)
}

func TestReplayViewHidesOpponentState(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	require.NoError(t, e.StartPreparationPhase(context.Background()))

	view, size, err := e.ReplayView(editorID, -1)
	require.NoError(t, err)
	require.Equal(t, e.Replay().Size(), size)
	nixon, _ := view.Player(nixonID)
	assert.Empty(t, nixon.Hand)
	assert.Equal(t, 5, nixon.HandSize)
	editor, _ := view.Player(editorID)
	assert.Len(t, editor.Hand, 5)
	red, _ := view.EvidenceToken(1)
	assert.Empty(t, red.Colors)

	recorded := e.Replay().GetStateAt(size - 1)
	nixon, _ = recorded.Player(nixonID)
	assert.Len(t, nixon.Hand, 5, "recorded state keeps both hands")
	assert.Equal(t, recorded.Checksum, view.Checksum)

	_, _, err = e.ReplayView(editorID, size)
	assert.ErrorIs(t, err, ErrNoReplayState)
	_, _, err = e.ReplayView("mitchell", 0)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}
