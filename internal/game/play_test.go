package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// passToEditor spends Nixon's opening turn.
func passToEditor(t *testing.T, e *Engine) {
	t.Helper()
	require.NoError(t, e.EndTurn(context.Background()))
	require.Equal(t, editorID, e.Snapshot().CurrentPlayerTurn)
}

func TestPlayValuePartMovesPower(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	passToEditor(t, e)
	log := watchEvents(e)

	view, err := e.PlayValuePart(editorID, "editor-1")
	require.NoError(t, err)
	assert.Equal(t, StageTokenType, view.Stage)
	assert.Equal(t, 3, view.Value)
	assert.ElementsMatch(t, []track.Color{track.ColorBlue, track.ColorGreen}, view.Colors)
	assert.True(t, view.CanCancel)

	out, err := e.SelectTokenType(context.Background(), TypeChoice{Kind: ChoosePower})
	require.NoError(t, err)
	assert.True(t, out.Completed)

	var ticks []int
	for _, evt := range log.ofType(rules.EventTokenStepped) {
		ticks = append(ticks, evt.Amount)
	}
	assert.Equal(t, []int{1, 2, 3}, ticks)

	s := e.Snapshot()
	assert.Equal(t, 3, s.Power.Position)
	assert.Empty(t, s.Power.Owner)
	assert.Empty(t, log.ofType(rules.EventTokenCaptured))
	assert.Equal(t, nixonID, s.CurrentPlayerTurn)
	assert.Equal(t, 7, s.RemainingTurns)
	assert.Nil(t, s.Selection)

	editor, _ := s.Player(editorID)
	assert.Len(t, editor.Hand, 3)
	require.Len(t, editor.DiscardedCards, 1)
	assert.Equal(t, "editor-1", editor.DiscardedCards[0].ID)
	assert.Equal(t, 1, editor.CardsPlayedThisRound)
}

func TestPlayValuePartCapturesPower(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	m, ok := e.MoveToken(track.PowerRef(), 4)
	require.True(t, ok)
	m.Finish()
	passToEditor(t, e)

	_, err := e.PlayValuePart(editorID, "editor-3")
	require.NoError(t, err)
	_, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: ChoosePower})
	require.NoError(t, err)

	s := e.Snapshot()
	assert.Equal(t, track.Center, s.Power.Position)
	assert.Equal(t, editorID, s.Power.Owner)
	assert.Equal(t, 9, s.PowerTokensLeft)

	editor, _ := s.Player(editorID)
	assert.Equal(t, []string{"power"}, editor.RoundCapturedTokens)
	assert.Equal(t, 1, editor.PowerTokensCaptured)
}

func TestSelectColorWithNoOptions(t *testing.T) {
	e := newTestEngine(t, manualProgress, withEvidence(
		track.Evidence{ID: 1, Colors: []track.Color{track.ColorBlue}, FaceUp: true},
	))
	startCardPhase(t, e)

	_, err := e.PlayValuePart(nixonID, "nixon-2")
	require.NoError(t, err)
	out, err := e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorRed})
	require.NoError(t, err)
	require.NotNil(t, out.Selection)
	assert.Equal(t, StageAction, out.Selection.Stage)
	assert.True(t, out.Selection.NoOptions)
	assert.Empty(t, out.Selection.FaceUpTokens)
	assert.False(t, out.Selection.ChallengeAvailable)

	_, err = e.SelectAction(context.Background(), ActionChoice{Kind: ActionChallenge})
	assert.ErrorIs(t, err, ErrNoOptions)

	view, err := e.BackToTypeSelection()
	require.NoError(t, err)
	assert.Equal(t, StageTokenType, view.Stage)
	require.NoError(t, e.CancelSelection())

	s := e.Snapshot()
	assert.Nil(t, s.Selection)
	assert.Equal(t, nixonID, s.CurrentPlayerTurn)
	assert.Equal(t, 9, s.RemainingTurns)
	nixon, _ := s.Player(nixonID)
	assert.Len(t, nixon.Hand, 5, "cancelled card stays in hand")
}

func TestChallengeRevealsAndMoves(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	log := watchEvents(e)

	_, err := e.PlayValuePart(nixonID, "nixon-2")
	require.NoError(t, err)
	out, err := e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorRed})
	require.NoError(t, err)
	assert.True(t, out.Selection.ChallengeAvailable)
	assert.Empty(t, out.Selection.FaceUpTokens)

	out, err = e.SelectAction(context.Background(), ActionChoice{Kind: ActionChallenge})
	require.NoError(t, err)
	assert.True(t, out.Completed)

	id, ok := e.GetFaceUpTokenIdByColor(track.ColorRed)
	require.True(t, ok)
	ev, _ := e.Snapshot().EvidenceToken(id)
	assert.Equal(t, -4, ev.Position)
	assert.True(t, ev.FaceUp)
	assert.Len(t, log.ofType(rules.EventTokenFlipped), 1)
	assert.Equal(t, editorID, e.Snapshot().CurrentPlayerTurn)
}

func TestMoveFaceUpEvidence(t *testing.T) {
	e := newTestEngine(t, manualProgress, withEvidence(
		track.Evidence{ID: 7, Colors: []track.Color{track.ColorBlue, track.ColorRed}, FaceUp: true, Position: 2},
	))
	startCardPhase(t, e)

	_, err := e.PlayValuePart(nixonID, "nixon-3")
	require.NoError(t, err)
	out, err := e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorBlue})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, out.Selection.FaceUpTokens)

	_, err = e.SelectAction(context.Background(), ActionChoice{Kind: ActionMoveFaceUp, TokenID: 8})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	out, err = e.SelectAction(context.Background(), ActionChoice{Kind: ActionMoveFaceUp, TokenID: 7})
	require.NoError(t, err)
	assert.True(t, out.Completed)
	ev, _ := e.Snapshot().EvidenceToken(7)
	assert.Equal(t, 0, ev.Position)
}

func TestFailedChallengeLocksSelection(t *testing.T) {
	e := newTestEngine(t, manualProgress, withEvidence(
		track.Evidence{ID: 3, Colors: []track.Color{track.ColorGreen}},
	))
	startCardPhase(t, e)
	log := watchEvents(e)

	_, err := e.PlayValuePart(nixonID, "nixon-3")
	require.NoError(t, err)
	_, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorRed})
	require.NoError(t, err)

	out, err := e.SelectAction(context.Background(), ActionChoice{Kind: ActionChallenge})
	require.NoError(t, err)
	assert.True(t, out.ChallengeFailed)
	assert.False(t, out.Completed)
	require.NotNil(t, out.Selection)
	assert.Equal(t, StageTokenType, out.Selection.Stage)
	assert.Empty(t, out.Selection.Colors)
	assert.False(t, out.Selection.CanCancel)
	assert.Len(t, log.ofType(rules.EventChallengeFailed), 1)

	assert.ErrorIs(t, e.CancelSelection(), ErrSelectionLocked)
	_, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorRed})
	assert.ErrorIs(t, err, ErrColorNotAllowed)

	out, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseInitiative})
	require.NoError(t, err)
	assert.True(t, out.Completed)

	s := e.Snapshot()
	assert.Equal(t, -2, s.Initiative.Position)
	ev, _ := s.EvidenceToken(3)
	assert.False(t, ev.FaceUp)
}

func TestSelectionStageGuards(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)

	_, err := e.SelectTokenType(context.Background(), TypeChoice{Kind: ChoosePower})
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.ErrorIs(t, e.CancelSelection(), ErrNoSelection)

	_, err = e.PlayValuePart(nixonID, "nixon-1")
	require.NoError(t, err)
	_, err = e.PlayValuePart(nixonID, "nixon-2")
	assert.ErrorIs(t, err, ErrSelectionOpen)
	assert.ErrorIs(t, e.PlayCard(context.Background(), nixonID, "nixon-2"), ErrSelectionOpen)

	_, err = e.SelectAction(context.Background(), ActionChoice{Kind: ActionChallenge})
	assert.ErrorIs(t, err, ErrInvalidChoice, "action before a color is chosen")
	_, err = e.BackToTypeSelection()
	assert.ErrorIs(t, err, ErrInvalidChoice)

	_, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: ChooseColor, Color: track.ColorRed})
	assert.ErrorIs(t, err, ErrColorNotAllowed, "nixon-1 carries blue and green")
	_, err = e.SelectTokenType(context.Background(), TypeChoice{Kind: "scandal"})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	view, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, "nixon-1", view.CardID)
}

func TestPlayCardGuards(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	ctx := context.Background()

	require.NoError(t, e.StartPreparationPhase(ctx))
	assert.ErrorIs(t, e.PlayCard(ctx, nixonID, "nixon-1"), ErrWrongPhase)
	require.NoError(t, e.StartCardPhase())

	assert.ErrorIs(t, e.PlayCard(ctx, editorID, "editor-1"), ErrNotYourTurn)
	assert.ErrorIs(t, e.PlayCard(ctx, nixonID, "editor-1"), ErrCardNotInHand)
	assert.ErrorIs(t, e.PlayCard(ctx, "haldeman", "nixon-1"), ErrUnknownPlayer)

	m, ok := e.MoveToken(track.PowerRef(), 2)
	require.True(t, ok)
	assert.ErrorIs(t, e.PlayCard(ctx, nixonID, "nixon-1"), ErrMoveInProgress)
	m.Finish()

	require.NoError(t, e.PlayCard(ctx, nixonID, "nixon-1"))
	s := e.Snapshot()
	nixon, _ := s.Player(nixonID)
	assert.Len(t, nixon.Hand, 4)
	assert.Equal(t, editorID, s.CurrentPlayerTurn)
	assert.ErrorIs(t, e.PlayCard(ctx, nixonID, "nixon-2"), ErrNotYourTurn)
}

func TestPlayActionPartMovesTowardOwnSide(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	ctx := context.Background()

	require.NoError(t, e.PlayActionPart(ctx, nixonID, "nixon-1", ActionTarget{}))
	assert.Equal(t, -2, e.Snapshot().Initiative.Position)

	require.NoError(t, e.PlayActionPart(ctx, editorID, "editor-3", ActionTarget{Token: track.TokenPower}))
	assert.Equal(t, 2, e.Snapshot().Power.Position)
}

func TestPlayActionPartAnyToken(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	ctx := context.Background()

	err := e.PlayActionPart(ctx, nixonID, "nixon-3", ActionTarget{})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	require.NoError(t, e.PlayActionPart(ctx, nixonID, "nixon-3", ActionTarget{Token: track.TokenPower}))
	assert.Equal(t, -2, e.Snapshot().Power.Position)
}

func TestPlayActionPartEvidenceSteps(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	ctx := context.Background()

	err := e.PlayActionPart(ctx, nixonID, "nixon-2", ActionTarget{EvidenceID: 42})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	require.NoError(t, e.PlayActionPart(ctx, nixonID, "nixon-2", ActionTarget{EvidenceID: 2, Steps: 1}))
	ev, _ := e.Snapshot().EvidenceToken(2)
	assert.Equal(t, -1, ev.Position)
}

func TestPlayActionPartDiscardsOpponentCard(t *testing.T) {
	e := newTestEngine(t, manualProgress)
	startCardPhase(t, e)
	passToEditor(t, e)
	ctx := context.Background()

	err := e.PlayActionPart(ctx, editorID, "editor-4", ActionTarget{OpponentCardID: "nixon-9"})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	require.NoError(t, e.PlayActionPart(ctx, editorID, "editor-4", ActionTarget{}))

	s := e.Snapshot()
	nixon, _ := s.Player(nixonID)
	assert.Len(t, nixon.Hand, 4)
	require.Len(t, nixon.DiscardedCards, 1)
	assert.Equal(t, "nixon-5", nixon.DiscardedCards[0].ID)

	editor, _ := s.Player(editorID)
	require.Len(t, editor.DiscardedCards, 1)
	assert.Equal(t, "editor-4", editor.DiscardedCards[0].ID)
	assert.Equal(t, nixonID, s.CurrentPlayerTurn)
}
