// Package watchers holds the concrete rules watchers the engine registers
// for every game.
package watchers

import (
	"maps"
	"slices"

	"github.com/watergate-game/watergate-server-go/internal/game/rules"
)

// CardsPlayedWatcher tracks cards played per player during a round.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	played map[string][]string // playerID -> card ids
}

// NewCardsPlayedWatcher creates a round-scoped cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	w := &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeRound),
		played:      make(map[string][]string),
	}
	w.SetKey("CardsPlayedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed || event.PlayerID == "" || event.TargetID == "" {
		return
	}
	w.played[event.PlayerID] = append(w.played[event.PlayerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[string][]string)
}

// Played returns the card ids a player played this round.
func (w *CardsPlayedWatcher) Played(playerID string) []string {
	return slices.Clone(w.played[playerID])
}

// Count returns the number of cards a player played this round.
func (w *CardsPlayedWatcher) Count(playerID string) int {
	return len(w.played[playerID])
}

// Copy creates a copy of this watcher.
func (w *CardsPlayedWatcher) Copy() rules.Watcher {
	c := NewCardsPlayedWatcher()
	c.SetCondition(w.ConditionMet())
	for k, v := range w.played {
		c.played[k] = slices.Clone(v)
	}
	return c
}

// TokensCapturedWatcher counts captures per player and token type during
// a round.
type TokensCapturedWatcher struct {
	*rules.BaseWatcher
	captured map[string]map[string]int // playerID -> token type -> count
}

// NewTokensCapturedWatcher creates a round-scoped capture watcher.
func NewTokensCapturedWatcher() *TokensCapturedWatcher {
	w := &TokensCapturedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeRound),
		captured:    make(map[string]map[string]int),
	}
	w.SetKey("TokensCapturedWatcher")
	return w
}

// Watch implements the Watcher interface. Captured events carry the token
// type in Data.
func (w *TokensCapturedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventTokenCaptured || event.PlayerID == "" || event.Data == "" {
		return
	}
	byType, ok := w.captured[event.PlayerID]
	if !ok {
		byType = make(map[string]int)
		w.captured[event.PlayerID] = byType
	}
	byType[event.Data]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *TokensCapturedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.captured = make(map[string]map[string]int)
}

// Count returns how many tokens of tokenType a player captured this round.
func (w *TokensCapturedWatcher) Count(playerID, tokenType string) int {
	return w.captured[playerID][tokenType]
}

// Total returns the number of captures by a player this round.
func (w *TokensCapturedWatcher) Total(playerID string) int {
	total := 0
	for _, n := range w.captured[playerID] {
		total += n
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *TokensCapturedWatcher) Copy() rules.Watcher {
	c := NewTokensCapturedWatcher()
	c.SetCondition(w.ConditionMet())
	for player, byType := range w.captured {
		c.captured[player] = maps.Clone(byType)
	}
	return c
}

// TokenMovesWatcher counts completed moves over the whole game.
type TokenMovesWatcher struct {
	*rules.BaseWatcher
	moves map[string]int // token ref -> completed moves
}

// NewTokenMovesWatcher creates a game-scoped move watcher.
func NewTokenMovesWatcher() *TokenMovesWatcher {
	w := &TokenMovesWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		moves:       make(map[string]int),
	}
	w.SetKey("TokenMovesWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *TokenMovesWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventTokenMoved || event.TargetID == "" {
		return
	}
	w.moves[event.TargetID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *TokenMovesWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.moves = make(map[string]int)
}

// Moves returns how many moves of the referenced token completed.
func (w *TokenMovesWatcher) Moves(ref string) int {
	return w.moves[ref]
}

// Copy creates a copy of this watcher.
func (w *TokenMovesWatcher) Copy() rules.Watcher {
	c := NewTokenMovesWatcher()
	c.SetCondition(w.ConditionMet())
	c.moves = maps.Clone(w.moves)
	return c
}
