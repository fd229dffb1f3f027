package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Phase represents the phases of a round.
type Phase int

const (
	PhasePreparation Phase = iota
	PhaseCard
	PhaseEvaluation
)

var phaseNames = map[Phase]string{
	PhasePreparation: "PREPARATION",
	PhaseCard:        "CARD",
	PhaseEvaluation:  "EVALUATION",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Turn budget of a Card phase. The first player gets one extra turn.
const (
	FirstPlayerTurns  = 5
	SecondPlayerTurns = 4
	TurnsPerRound     = FirstPlayerTurns + SecondPlayerTurns
)

// ErrPhaseOrder is returned when a phase transition is requested out of order.
var ErrPhaseOrder = errors.New("phase transition out of order")

// RoundManager tracks round number, phase, first player and turn alternation
// between exactly two players. It holds no game objects.
type RoundManager struct {
	players        [2]string
	round          int
	phase          Phase
	firstPlayer    string
	currentPlayer  string
	remainingTurns int

	preparationComplete bool
	cardPhaseComplete   bool
	evaluationComplete  bool
}

// NewRoundManager creates a manager for two distinct players. The round
// counter starts at 0; the first BeginRound moves it to 1.
func NewRoundManager(playerA, playerB string) (*RoundManager, error) {
	a, b := strings.TrimSpace(playerA), strings.TrimSpace(playerB)
	if a == "" || b == "" {
		return nil, errors.New("round manager requires two player ids")
	}
	if a == b {
		return nil, fmt.Errorf("round manager requires distinct players, got %q twice", a)
	}
	return &RoundManager{
		players:        [2]string{a, b},
		phase:          PhasePreparation,
		remainingTurns: TurnsPerRound,
	}, nil
}

// Round returns the current round number (0 before the first round).
func (rm *RoundManager) Round() int { return rm.round }

// Phase returns the current phase.
func (rm *RoundManager) Phase() Phase { return rm.phase }

// FirstPlayer returns the player who opens the current or next Card phase.
func (rm *RoundManager) FirstPlayer() string { return rm.firstPlayer }

// CurrentPlayer returns whose turn it is ("" outside the Card phase).
func (rm *RoundManager) CurrentPlayer() string { return rm.currentPlayer }

// RemainingTurns returns the turns left in the Card phase.
func (rm *RoundManager) RemainingTurns() int { return rm.remainingTurns }

// PreparationComplete reports whether both hands were dealt this round.
func (rm *RoundManager) PreparationComplete() bool { return rm.preparationComplete }

// CardPhaseComplete reports whether the Card phase turn budget is spent.
func (rm *RoundManager) CardPhaseComplete() bool { return rm.cardPhaseComplete }

// EvaluationComplete reports whether the current round was evaluated.
func (rm *RoundManager) EvaluationComplete() bool { return rm.evaluationComplete }

// Players returns both player ids in registration order.
func (rm *RoundManager) Players() [2]string { return rm.players }

// Other returns the opponent of player, or "" if player is unknown.
func (rm *RoundManager) Other(player string) string {
	switch player {
	case rm.players[0]:
		return rm.players[1]
	case rm.players[1]:
		return rm.players[0]
	default:
		return ""
	}
}

// BeginRound increments the round counter and clears the phase flags.
// Allowed before the first round and after a completed Evaluation phase.
func (rm *RoundManager) BeginRound() (int, error) {
	if rm.round > 0 && !rm.evaluationComplete {
		return rm.round, fmt.Errorf("%w: round %d has not been evaluated", ErrPhaseOrder, rm.round)
	}
	rm.round++
	rm.phase = PhasePreparation
	rm.currentPlayer = ""
	rm.preparationComplete = false
	rm.cardPhaseComplete = false
	rm.evaluationComplete = false
	return rm.round, nil
}

// EnterPreparation switches to the Preparation phase of the current round.
func (rm *RoundManager) EnterPreparation() error {
	if rm.round == 0 {
		return fmt.Errorf("%w: no round started", ErrPhaseOrder)
	}
	rm.phase = PhasePreparation
	rm.currentPlayer = ""
	rm.preparationComplete = false
	return nil
}

// SetFirstPlayer records who opens the Card phase.
func (rm *RoundManager) SetFirstPlayer(player string) error {
	if rm.Other(player) == "" {
		return fmt.Errorf("unknown player %q", player)
	}
	rm.firstPlayer = player
	return nil
}

// CompletePreparation marks dealing as done.
func (rm *RoundManager) CompletePreparation() {
	rm.preparationComplete = true
}

// BeginCardPhase hands the turn to the first player with a full budget.
func (rm *RoundManager) BeginCardPhase() error {
	if !rm.preparationComplete || rm.phase != PhasePreparation {
		return fmt.Errorf("%w: preparation is not complete", ErrPhaseOrder)
	}
	if rm.firstPlayer == "" {
		return fmt.Errorf("%w: first player not determined", ErrPhaseOrder)
	}
	rm.phase = PhaseCard
	rm.currentPlayer = rm.firstPlayer
	rm.remainingTurns = TurnsPerRound
	rm.cardPhaseComplete = false
	return nil
}

// EndTurn spends one turn. When the budget reaches zero the Card phase is
// complete and true is returned; otherwise the turn passes to the opponent.
func (rm *RoundManager) EndTurn() (bool, error) {
	if rm.phase != PhaseCard || rm.cardPhaseComplete {
		return false, fmt.Errorf("%w: no card phase in progress", ErrPhaseOrder)
	}
	if rm.remainingTurns > 0 {
		rm.remainingTurns--
	}
	if rm.remainingTurns == 0 {
		rm.cardPhaseComplete = true
		return true, nil
	}
	rm.currentPlayer = rm.Other(rm.currentPlayer)
	return false, nil
}

// BeginEvaluation switches to the Evaluation phase once all turns are spent.
func (rm *RoundManager) BeginEvaluation() error {
	if rm.phase != PhaseCard || !rm.cardPhaseComplete {
		return fmt.Errorf("%w: card phase is not complete", ErrPhaseOrder)
	}
	rm.phase = PhaseEvaluation
	rm.currentPlayer = ""
	rm.evaluationComplete = false
	return nil
}

// CompleteEvaluation marks the round as evaluated.
func (rm *RoundManager) CompleteEvaluation() {
	rm.evaluationComplete = true
}
