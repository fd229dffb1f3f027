package game

import (
	"errors"
	"fmt"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrInvalidPlayers   = errors.New("a game needs exactly two players with distinct roles")
	ErrWrongPhase       = errors.New("operation not allowed in the current phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrMoveInProgress   = errors.New("a token move is in progress")
	ErrShortHand        = errors.New("deck service returned a short hand")
	ErrDevToolsDisabled = errors.New("dev tools are disabled")
	ErrNoReplayState    = errors.New("no replay state at index")

	// Card play selection
	ErrNoSelection     = errors.New("no card selection in progress")
	ErrSelectionOpen   = errors.New("a card selection is already in progress")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrColorNotAllowed = errors.New("color not allowed for this card")
	ErrNoOptions       = errors.New("no options available")
	ErrSelectionLocked = errors.New("selection cannot be cancelled after a failed challenge")
)

// DealError reports a failed hand fetch. The round stays in the
// Preparation phase and dealing can be retried.
type DealError struct {
	Role cards.Role
	Err  error
}

func (e *DealError) Error() string {
	return fmt.Sprintf("deal cards: fetch hand for %s: %v", e.Role, e.Err)
}

func (e *DealError) Unwrap() error { return e.Err }
