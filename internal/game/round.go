package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/deck"
	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// StartNewRound advances the round counter and runs the Preparation phase.
// With auto-progress on, the Card phase follows immediately.
func (e *Engine) StartNewRound(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	return e.startNewRoundLocked(ctx)
}

// StartPreparationPhase determines the first player, resets Initiative and
// Power, and deals both hands. On a fresh game it opens round 1. It may be
// retried after a failed deal.
func (e *Engine) StartPreparationPhase(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	if e.rounds.Round() == 0 {
		return e.startNewRoundLocked(ctx)
	}
	if e.rounds.Phase() != rules.PhasePreparation || e.rounds.PreparationComplete() {
		return fmt.Errorf("%w: preparation requested during %s", ErrWrongPhase, e.rounds.Phase())
	}
	return e.startPreparationLocked(ctx)
}

// StartCardPhase hands the first turn to the first player with a budget of
// nine turns.
func (e *Engine) StartCardPhase() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	return e.startCardLocked()
}

// StartEvaluationPhase decides next round's first player and clears every
// player's round captures. With auto-progress on, the next round starts.
func (e *Engine) StartEvaluationPhase(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	return e.startEvaluationLocked(ctx)
}

// EndTurn spends the current turn without playing a card.
func (e *Engine) EndTurn(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	if e.selection != nil {
		return ErrSelectionOpen
	}
	return e.endTurnLocked(ctx)
}

// SkipCurrentTurn is a development aid. It abandons any open card
// selection and then ends the turn exactly like EndTurn.
func (e *Engine) SkipCurrentTurn(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.moving != nil {
		return ErrMoveInProgress
	}
	e.selection = nil
	return e.endTurnLocked(ctx)
}

func (e *Engine) startNewRoundLocked(ctx context.Context) error {
	round, err := e.rounds.BeginRound()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongPhase, err)
	}
	e.selection = nil
	e.publish(rules.NewEventWithAmount(rules.EventRoundStarted, e.id, "", "", round))

	if e.logger != nil {
		e.logger.Info("round started",
			zap.String("game_id", e.id),
			zap.Int("round", round),
		)
	}
	return e.startPreparationLocked(ctx)
}

func (e *Engine) startPreparationLocked(ctx context.Context) error {
	if err := e.rounds.EnterPreparation(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongPhase, err)
	}
	e.publishPhase(rules.PhasePreparation)

	first := e.rounds.FirstPlayer()
	if e.rounds.Round() == 1 || first == "" {
		first = e.byRole[cards.RoleNixon]
		if err := e.rounds.SetFirstPlayer(first); err != nil {
			return err
		}
		e.publish(rules.NewEvent(rules.EventFirstPlayerDetermined, e.id, first, ""))
	}

	e.board.ResetMarkers()
	e.publish(rules.NewEvent(rules.EventTokensReset, e.id, "", ""))

	if err := e.dealLocked(ctx, first); err != nil {
		if e.logger != nil {
			e.logger.Warn("dealing failed",
				zap.String("game_id", e.id),
				zap.Int("round", e.rounds.Round()),
				zap.Error(err),
			)
		}
		return err
	}

	e.rounds.CompletePreparation()
	e.publish(rules.NewEvent(rules.EventPhaseCompleted, e.id, "", rules.PhasePreparation.String()))
	e.recordLocked()

	if e.autoProgress {
		return e.startCardLocked()
	}
	return nil
}

// dealLocked fetches one hand per player and only assigns them once both
// fetches succeeded. The second player's fifth card is excluded.
func (e *Engine) dealLocked(ctx context.Context, firstID string) error {
	secondID := e.rounds.Other(firstID)
	first, second := e.players[firstID], e.players[secondID]

	firstHand, err := e.fetchHandLocked(ctx, first.Role)
	if err != nil {
		return err
	}
	secondHand, err := e.fetchHandLocked(ctx, second.Role)
	if err != nil {
		return err
	}

	excluded := secondHand[len(secondHand)-1]
	secondHand = secondHand[:len(secondHand)-1]

	first.Hand = firstHand
	second.Hand = secondHand
	second.ExcludedCards = append(second.ExcludedCards, excluded)
	for _, p := range []*Player{first, second} {
		p.RemainingDeckCards = max(p.RemainingDeckCards-deck.HandSize, 0)
		e.publish(rules.NewEventWithAmount(rules.EventHandDealt, e.id, p.ID, "", len(p.Hand)))
	}
	e.publish(rules.NewEvent(rules.EventCardExcluded, e.id, second.ID, excluded.ID))

	if e.logger != nil {
		e.logger.Debug("hands dealt",
			zap.String("game_id", e.id),
			zap.String("first_player", firstID),
			zap.Int("first_hand", len(first.Hand)),
			zap.Int("second_hand", len(second.Hand)),
		)
	}
	return nil
}

func (e *Engine) fetchHandLocked(ctx context.Context, role cards.Role) ([]cards.Card, error) {
	hand, err := e.deck.FetchHand(ctx, role)
	if err != nil {
		return nil, &DealError{Role: role, Err: err}
	}
	if len(hand) < deck.HandSize {
		return nil, &DealError{Role: role, Err: fmt.Errorf("%w: got %d of %d cards", ErrShortHand, len(hand), deck.HandSize)}
	}
	return cards.CloneAll(hand[:deck.HandSize]), nil
}

func (e *Engine) startCardLocked() error {
	if err := e.rounds.BeginCardPhase(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongPhase, err)
	}
	e.selection = nil
	e.publishPhase(rules.PhaseCard)
	e.publish(rules.NewEventWithAmount(rules.EventTurnChanged, e.id, e.rounds.CurrentPlayer(), "", e.rounds.RemainingTurns()))
	e.recordLocked()
	return nil
}

// endTurnLocked is the single turn-spending path shared by card plays,
// EndTurn and SkipCurrentTurn.
func (e *Engine) endTurnLocked(ctx context.Context) error {
	previous := e.rounds.CurrentPlayer()
	done, err := e.rounds.EndTurn()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongPhase, err)
	}

	if e.logger != nil {
		e.logger.Debug("turn ended",
			zap.String("game_id", e.id),
			zap.String("player_id", previous),
			zap.Int("remaining_turns", e.rounds.RemainingTurns()),
		)
	}

	if !done {
		e.publish(rules.NewEventWithAmount(rules.EventTurnChanged, e.id, e.rounds.CurrentPlayer(), "", e.rounds.RemainingTurns()))
		return nil
	}

	e.publish(rules.NewEvent(rules.EventPhaseCompleted, e.id, "", rules.PhaseCard.String()))
	e.recordLocked()
	if e.autoProgress {
		return e.startEvaluationLocked(ctx)
	}
	return nil
}

func (e *Engine) startEvaluationLocked(ctx context.Context) error {
	if err := e.rounds.BeginEvaluation(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongPhase, err)
	}
	e.selection = nil
	e.publishPhase(rules.PhaseEvaluation)

	next := e.resolveInitiativeLocked()
	if err := e.rounds.SetFirstPlayer(next); err != nil {
		return err
	}
	e.publish(rules.NewEvent(rules.EventFirstPlayerDetermined, e.id, next, ""))

	for _, id := range e.order {
		e.players[id].RoundCapturedTokens = nil
	}
	e.watchers.ResetWatchersByScope(rules.WatcherScopeRound)
	e.publish(rules.NewEvent(rules.EventRoundCapturesReset, e.id, "", ""))

	e.rounds.CompleteEvaluation()
	e.publish(rules.NewEvent(rules.EventPhaseCompleted, e.id, "", rules.PhaseEvaluation.String()))
	e.recordLocked()

	if e.logger != nil {
		e.logger.Info("round evaluated",
			zap.String("game_id", e.id),
			zap.Int("round", e.rounds.Round()),
			zap.String("next_first_player", next),
		)
	}

	if e.autoProgress {
		return e.startNewRoundLocked(ctx)
	}
	return nil
}

// resolveInitiativeLocked picks next round's first player: the Initiative
// owner if it was captured, otherwise the side it rests on, and at the
// center the player who did not go first this round.
func (e *Engine) resolveInitiativeLocked() string {
	if owner := e.board.Initiative.Owner; owner != "" {
		return owner
	}
	if role, ok := cards.RoleForSide(track.RestingSide(e.board.Initiative.Position)); ok {
		if id, ok := e.byRole[role]; ok {
			return id
		}
	}
	return e.rounds.Other(e.rounds.FirstPlayer())
}

func (e *Engine) publishPhase(phase rules.Phase) {
	evt := rules.NewEvent(rules.EventPhaseChanged, e.id, "", phase.String())
	evt.Data = phase.String()
	e.publish(evt)
}
