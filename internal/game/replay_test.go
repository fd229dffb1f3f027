package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watergate-game/watergate-server-go/internal/game/rules"
)

func TestNewReplay(t *testing.T) {
	replay := NewReplay("game-123")
	assert.Equal(t, "game-123", replay.GameID)
	assert.Equal(t, 0, replay.CurrentIndex)
	assert.Equal(t, 0, replay.Size())
	assert.Nil(t, replay.Last())
	assert.Nil(t, replay.Skip(1))
}

func TestReplayRecordState(t *testing.T) {
	replay := NewReplay("game-123")

	snapshot := &Snapshot{GameID: "game-123", Round: 1}
	replay.RecordState(snapshot)
	replay.RecordState(nil)

	assert.Equal(t, 1, replay.Size())
	assert.Equal(t, snapshot, replay.States[0])
	assert.Equal(t, snapshot, replay.Last())
}

func TestReplayNavigation(t *testing.T) {
	replay := NewReplay("game-123")
	for i := 0; i < 5; i++ {
		replay.RecordState(&Snapshot{GameID: "game-123", Round: i + 1})
	}

	replay.Start()
	state := replay.Next()
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, 1, replay.CurrentIndex)

	state = replay.Next()
	require.NotNil(t, state)
	assert.Equal(t, 2, state.Round)

	state = replay.Previous()
	require.NotNil(t, state)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, 1, replay.CurrentIndex)

	state = replay.Previous()
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Round)

	assert.Nil(t, replay.Previous())

	for i := 0; i < 10; i++ {
		replay.Next()
	}
	assert.Nil(t, replay.Next())
}

func TestReplaySkip(t *testing.T) {
	replay := NewReplay("game-123")
	for i := 0; i < 10; i++ {
		replay.RecordState(&Snapshot{GameID: "game-123", Round: i + 1})
	}
	replay.Start()

	assert.Equal(t, 4, replay.Skip(3).Round)
	assert.Equal(t, 10, replay.Skip(100).Round)
	assert.Equal(t, 9, replay.CurrentIndex)
	assert.Equal(t, 5, replay.Skip(-5).Round)
	assert.Equal(t, 1, replay.Skip(-100).Round)

	assert.Nil(t, replay.GetStateAt(-1))
	assert.Nil(t, replay.GetStateAt(10))
	assert.Equal(t, 10, replay.GetStateAt(9).Round)
}

func TestEngineRecordsPhaseTransitions(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	ctx := context.Background()

	require.NoError(t, e.StartPreparationPhase(ctx))
	require.NoError(t, e.StartCardPhase())
	for i := 0; i < rules.TurnsPerRound; i++ {
		require.NoError(t, e.EndTurn(ctx))
	}
	require.NoError(t, e.StartEvaluationPhase(ctx))

	replay := e.Replay()
	require.Equal(t, 5, replay.Size())

	phases := make([]string, 0, replay.Size())
	for _, s := range replay.States {
		phases = append(phases, s.Phase)
		assert.True(t, s.VerifyChecksum(s.Checksum))
	}
	assert.Equal(t, []string{
		rules.PhasePreparation.String(),
		rules.PhasePreparation.String(),
		rules.PhaseCard.String(),
		rules.PhaseCard.String(),
		rules.PhaseEvaluation.String(),
	}, phases)

	assert.Equal(t, rules.TurnsPerRound, replay.GetStateAt(2).RemainingTurns)
	assert.True(t, replay.GetStateAt(3).CardPhaseComplete)
	assert.True(t, replay.Last().EvaluationComplete)
}
