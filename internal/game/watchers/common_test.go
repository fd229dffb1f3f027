package watchers

import (
	"testing"

	"github.com/watergate-game/watergate-server-go/internal/game/rules"
)

func TestCardsPlayedWatcher(t *testing.T) {
	watcher := NewCardsPlayedWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}
	if watcher.GetScope() != rules.WatcherScopeRound {
		t.Fatalf("expected ROUND scope, got %s", watcher.GetScope())
	}

	watcher.Watch(rules.NewEvent(rules.EventCardPlayed, "g1", "player1", "nixon-1"))
	watcher.Watch(rules.NewEvent(rules.EventCardPlayed, "g1", "player1", "nixon-3"))
	watcher.Watch(rules.NewEvent(rules.EventCardDiscarded, "g1", "player1", "nixon-4"))

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a card play")
	}
	if watcher.Count("player1") != 2 {
		t.Fatalf("expected 2 cards played, got %d", watcher.Count("player1"))
	}
	played := watcher.Played("player1")
	if len(played) != 2 || played[0] != "nixon-1" || played[1] != "nixon-3" {
		t.Fatalf("unexpected played cards %v", played)
	}

	snapshot := watcher.Copy().(*CardsPlayedWatcher)
	watcher.Reset()
	if watcher.ConditionMet() || watcher.Count("player1") != 0 {
		t.Fatal("watcher should be empty after reset")
	}
	if snapshot.Count("player1") != 2 {
		t.Fatalf("copy should keep its tally, got %d", snapshot.Count("player1"))
	}
}

func TestTokensCapturedWatcher(t *testing.T) {
	watcher := NewTokensCapturedWatcher()

	capture := func(player, tokenType string) {
		evt := rules.NewEventWithAmount(rules.EventTokenCaptured, "g1", player, tokenType, 5)
		evt.Data = tokenType
		watcher.Watch(evt)
	}

	capture("editor", "power")
	capture("editor", "evidence")
	capture("editor", "power")
	capture("nixon", "initiative")

	// Events without a token type are ignored.
	watcher.Watch(rules.NewEvent(rules.EventTokenCaptured, "g1", "nixon", "power"))

	if watcher.Count("editor", "power") != 2 {
		t.Fatalf("expected 2 power captures, got %d", watcher.Count("editor", "power"))
	}
	if watcher.Total("editor") != 3 {
		t.Fatalf("expected 3 editor captures, got %d", watcher.Total("editor"))
	}
	if watcher.Total("nixon") != 1 {
		t.Fatalf("expected 1 nixon capture, got %d", watcher.Total("nixon"))
	}

	copied := watcher.Copy().(*TokensCapturedWatcher)
	watcher.Reset()
	if watcher.Total("editor") != 0 {
		t.Fatal("expected reset to clear captures")
	}
	if copied.Count("editor", "evidence") != 1 {
		t.Fatal("copy should be independent of reset")
	}
}

func TestTokenMovesWatcher(t *testing.T) {
	watcher := NewTokenMovesWatcher()
	if watcher.GetScope() != rules.WatcherScopeGame {
		t.Fatalf("expected GAME scope, got %s", watcher.GetScope())
	}

	watcher.Watch(rules.NewEvent(rules.EventTokenMoved, "g1", "p", "power"))
	watcher.Watch(rules.NewEvent(rules.EventTokenMoved, "g1", "p", "power"))
	watcher.Watch(rules.NewEvent(rules.EventTokenStepped, "g1", "p", "power"))

	if watcher.Moves("power") != 2 {
		t.Fatalf("expected 2 moves, got %d", watcher.Moves("power"))
	}
}

func TestWatchersInRegistry(t *testing.T) {
	registry := rules.NewWatcherRegistry()
	played := NewCardsPlayedWatcher()
	moves := NewTokenMovesWatcher()
	registry.AddWatcher(played)
	registry.AddWatcher(moves)

	registry.NotifyWatchers(rules.NewEvent(rules.EventCardPlayed, "g1", "p1", "editor-2"))
	registry.NotifyWatchers(rules.NewEvent(rules.EventTokenMoved, "g1", "p1", "initiative"))
	registry.ResetWatchersByScope(rules.WatcherScopeRound)

	if played.Count("p1") != 0 {
		t.Fatal("round watcher should be reset")
	}
	if moves.Moves("initiative") != 1 {
		t.Fatal("game watcher should survive a round reset")
	}
}
