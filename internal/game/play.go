package game

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// SelectionStage is the step of the value-part selection protocol.
type SelectionStage string

const (
	StageTokenType SelectionStage = "token_type"
	StageAction    SelectionStage = "action"
)

// TypeChoiceKind is what the player picks at the token-type stage.
type TypeChoiceKind string

const (
	ChooseInitiative TypeChoiceKind = "initiative"
	ChoosePower      TypeChoiceKind = "power"
	ChooseColor      TypeChoiceKind = "color"
)

// TypeChoice is a token-type stage answer. Color is only read for
// ChooseColor.
type TypeChoice struct {
	Kind  TypeChoiceKind `json:"kind"`
	Color track.Color    `json:"color,omitempty"`
}

// ActionKind is what the player picks at the action stage.
type ActionKind string

const (
	ActionMoveFaceUp ActionKind = "move_face_up"
	ActionChallenge  ActionKind = "challenge"
)

// ActionChoice is an action stage answer. TokenID is only read for
// ActionMoveFaceUp.
type ActionChoice struct {
	Kind    ActionKind `json:"kind"`
	TokenID int        `json:"token_id,omitempty"`
}

// SelectionView is what the presentation layer renders for an open
// selection.
type SelectionView struct {
	PlayerID string         `json:"player_id"`
	CardID   string         `json:"card_id"`
	Value    int            `json:"value"`
	Stage    SelectionStage `json:"stage"`

	// Token-type stage. Colors is empty once a challenge has failed, and
	// the selection can then no longer be cancelled.
	Colors          []track.Color `json:"colors,omitempty"`
	ChallengeFailed bool          `json:"challenge_failed,omitempty"`
	CanCancel       bool          `json:"can_cancel"`

	// Action stage.
	Color              track.Color `json:"color,omitempty"`
	FaceUpTokens       []int       `json:"face_up_tokens,omitempty"`
	ChallengeAvailable bool        `json:"challenge_available,omitempty"`
	NoOptions          bool        `json:"no_options,omitempty"`
}

// Outcome is the result of a selection step. Completed means the card was
// resolved, discarded and the turn ended; otherwise Selection shows what
// to ask next.
type Outcome struct {
	Completed       bool           `json:"completed"`
	ChallengeFailed bool           `json:"challenge_failed,omitempty"`
	Selection       *SelectionView `json:"selection,omitempty"`
}

type selection struct {
	playerID        string
	card            cards.Card
	stage           SelectionStage
	color           track.Color
	challengeFailed bool
}

// PlayCard plays a card for no effect: it is discarded and the turn ends.
func (e *Engine) PlayCard(ctx context.Context, playerID, cardID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.checkPlayLocked(playerID, cardID); err != nil {
		return err
	}
	return e.completePlayLocked(ctx, playerID, cardID)
}

// PlayValuePart opens the selection protocol for a card's value part.
func (e *Engine) PlayValuePart(playerID, cardID string) (SelectionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.checkPlayLocked(playerID, cardID)
	if err != nil {
		return SelectionView{}, err
	}
	e.selection = &selection{playerID: playerID, card: card, stage: StageTokenType}
	return e.selectionViewLocked(), nil
}

// SelectTokenType answers the token-type stage. Initiative and Power move
// immediately and complete the play; a color opens the action stage.
func (e *Engine) SelectTokenType(ctx context.Context, choice TypeChoice) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel, err := e.openSelectionLocked(StageTokenType)
	if err != nil {
		return Outcome{}, err
	}

	switch choice.Kind {
	case ChooseInitiative:
		return e.resolveMoveLocked(ctx, track.InitiativeRef())
	case ChoosePower:
		return e.resolveMoveLocked(ctx, track.PowerRef())
	case ChooseColor:
		if sel.challengeFailed || !sel.card.SupportsColor(choice.Color) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrColorNotAllowed, choice.Color)
		}
		sel.stage = StageAction
		sel.color = choice.Color
		view := e.selectionViewLocked()
		return Outcome{Selection: &view}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: token type %q", ErrInvalidChoice, choice.Kind)
	}
}

// SelectAction answers the action stage: move a face-up token of the
// chosen color, or challenge to reveal a face-down one. A challenge with
// no matching hidden token fails and returns to the token-type stage with
// colors suppressed.
func (e *Engine) SelectAction(ctx context.Context, choice ActionChoice) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel, err := e.openSelectionLocked(StageAction)
	if err != nil {
		return Outcome{}, err
	}

	switch choice.Kind {
	case ActionMoveFaceUp:
		if !slices.Contains(e.board.FaceUpUnowned(sel.color), choice.TokenID) {
			return Outcome{}, fmt.Errorf("%w: no face-up %s token %d", ErrInvalidChoice, sel.color, choice.TokenID)
		}
		return e.resolveMoveLocked(ctx, track.EvidenceRef(choice.TokenID))

	case ActionChallenge:
		if !e.board.HasFaceDown() {
			return Outcome{}, ErrNoOptions
		}
		id, found := e.board.FindFaceDown(sel.color)
		if found {
			e.flipLocked(id, sel.playerID)
			return e.resolveMoveLocked(ctx, track.EvidenceRef(id))
		}

		sel.challengeFailed = true
		sel.stage = StageTokenType
		sel.color = ""
		e.publish(rules.NewEvent(rules.EventChallengeFailed, e.id, sel.playerID, sel.card.ID))

		if e.logger != nil {
			e.logger.Debug("challenge failed",
				zap.String("game_id", e.id),
				zap.String("player_id", sel.playerID),
				zap.String("card_id", sel.card.ID),
			)
		}
		view := e.selectionViewLocked()
		return Outcome{ChallengeFailed: true, Selection: &view}, nil

	default:
		return Outcome{}, fmt.Errorf("%w: action %q", ErrInvalidChoice, choice.Kind)
	}
}

// BackToTypeSelection leaves the action stage.
func (e *Engine) BackToTypeSelection() (SelectionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel, err := e.openSelectionLocked(StageAction)
	if err != nil {
		return SelectionView{}, err
	}
	sel.stage = StageTokenType
	sel.color = ""
	return e.selectionViewLocked(), nil
}

// CancelSelection abandons the play; the card stays in hand. It is refused
// once a challenge has failed.
func (e *Engine) CancelSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.challengeFailed {
		return ErrSelectionLocked
	}
	e.selection = nil
	return nil
}

// Selection returns the open selection, if any.
func (e *Engine) Selection() (SelectionView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		return SelectionView{}, false
	}
	return e.selectionViewLocked(), true
}

// checkPlayLocked validates that playerID may start playing cardID now.
func (e *Engine) checkPlayLocked(playerID, cardID string) (cards.Card, error) {
	if e.moving != nil {
		return cards.Card{}, ErrMoveInProgress
	}
	if e.selection != nil {
		return cards.Card{}, ErrSelectionOpen
	}
	player, err := e.playerLocked(playerID)
	if err != nil {
		return cards.Card{}, err
	}
	if e.rounds.Phase() != rules.PhaseCard || e.rounds.CardPhaseComplete() {
		return cards.Card{}, fmt.Errorf("%w: cards are played in the card phase", ErrWrongPhase)
	}
	if e.rounds.CurrentPlayer() != playerID {
		return cards.Card{}, ErrNotYourTurn
	}
	card, ok := player.card(cardID)
	if !ok {
		return cards.Card{}, fmt.Errorf("%w: %s", ErrCardNotInHand, cardID)
	}
	return card, nil
}

func (e *Engine) openSelectionLocked(stage SelectionStage) (*selection, error) {
	if e.selection == nil {
		return nil, ErrNoSelection
	}
	if e.moving != nil {
		return nil, ErrMoveInProgress
	}
	if e.selection.stage != stage {
		return nil, fmt.Errorf("%w: selection is at the %s stage", ErrInvalidChoice, e.selection.stage)
	}
	return e.selection, nil
}

// resolveMoveLocked moves ref by the selected card's value and completes
// the play. A move rejected as a no-op still completes it.
func (e *Engine) resolveMoveLocked(ctx context.Context, ref track.Ref) (Outcome, error) {
	sel := e.selection
	e.moveNowLocked(ref, sel.card.Value.Value, sel.playerID)
	if err := e.completePlayLocked(ctx, sel.playerID, sel.card.ID); err != nil {
		return Outcome{Completed: true}, err
	}
	return Outcome{Completed: true}, nil
}

// completePlayLocked discards the played card, closes the selection and
// ends the turn.
func (e *Engine) completePlayLocked(ctx context.Context, playerID, cardID string) error {
	player := e.players[playerID]
	if _, ok := discardCard(player, cardID); ok {
		e.publish(rules.NewEvent(rules.EventCardDiscarded, e.id, playerID, cardID))
	}
	e.publish(rules.NewEvent(rules.EventCardPlayed, e.id, playerID, cardID))
	e.selection = nil

	if e.logger != nil {
		e.logger.Debug("card played",
			zap.String("game_id", e.id),
			zap.String("player_id", playerID),
			zap.String("card_id", cardID),
		)
	}
	return e.endTurnLocked(ctx)
}

func (e *Engine) selectionViewLocked() SelectionView {
	sel := e.selection
	view := SelectionView{
		PlayerID:        sel.playerID,
		CardID:          sel.card.ID,
		Value:           sel.card.Value.Value,
		Stage:           sel.stage,
		ChallengeFailed: sel.challengeFailed,
		CanCancel:       !sel.challengeFailed,
	}
	switch sel.stage {
	case StageTokenType:
		if !sel.challengeFailed {
			view.Colors = slices.Clone(sel.card.Value.TokenColors)
		}
	case StageAction:
		view.Color = sel.color
		view.FaceUpTokens = e.board.FaceUpUnowned(sel.color)
		view.ChallengeAvailable = e.board.HasFaceDown()
		view.NoOptions = len(view.FaceUpTokens) == 0 && !view.ChallengeAvailable
	}
	return view
}
