package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// WatcherScope defines how long a watcher's tally lives.
type WatcherScope int

const (
	// WatcherScopeGame keeps its tally for the whole game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopeRound is reset at every Evaluation phase.
	WatcherScopeRound
	// WatcherScopePlayer tracks a single player for the whole game.
	WatcherScopePlayer
)

var watcherScopeNames = map[WatcherScope]string{
	WatcherScopeGame:   "GAME",
	WatcherScopeRound:  "ROUND",
	WatcherScopePlayer: "PLAYER",
}

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	if name, ok := watcherScopeNames[ws]; ok {
		return name
	}
	return "UNKNOWN"
}

// Watcher observes rules events and keeps a tally.
type Watcher interface {
	// Watch is called for every published event; watchers filter internally.
	Watch(event Event)

	// Reset clears the tally.
	Reset()

	// ConditionMet reports whether the watcher has observed anything since
	// the last reset.
	ConditionMet() bool

	GetScope() WatcherScope

	// GetKey returns a unique key. PLAYER scope keys are prefixed with the
	// controller id.
	GetKey() string

	// Copy creates a deep copy of this watcher.
	Copy() Watcher
}

// BaseWatcher provides the bookkeeping shared by all watchers.
type BaseWatcher struct {
	scope        WatcherScope
	controllerID string
	condition    bool
	key          string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{scope: scope}
}

func (bw *BaseWatcher) GetScope() WatcherScope { return bw.scope }

// SetControllerID sets the tracked player (PLAYER scope).
func (bw *BaseWatcher) SetControllerID(id string) { bw.controllerID = id }

func (bw *BaseWatcher) GetControllerID() string { return bw.controllerID }

func (bw *BaseWatcher) ConditionMet() bool { return bw.condition }

func (bw *BaseWatcher) SetCondition(condition bool) { bw.condition = condition }

// Reset clears the condition.
func (bw *BaseWatcher) Reset() { bw.condition = false }

func (bw *BaseWatcher) GetKey() string { return bw.key }

func (bw *BaseWatcher) SetKey(key string) { bw.key = key }

// WatcherRegistry manages watchers for a game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	byScope  map[WatcherScope][]Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
		byScope:  make(map[WatcherScope][]Watcher),
	}
}

// AddWatcher adds a watcher, generating a key when it has none. A watcher
// registered under an existing key replaces the previous one.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.GetKey()
	if key == "" {
		key = generateKey(watcher)
		if setter, ok := watcher.(interface{ SetKey(string) }); ok {
			setter.SetKey(key)
		}
	}

	if old, ok := wr.watchers[key]; ok {
		wr.removeFromScope(old.GetScope(), key)
	}
	wr.watchers[key] = watcher
	scope := watcher.GetScope()
	wr.byScope[scope] = append(wr.byScope[scope], watcher)
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	watcher, ok := wr.watchers[key]
	if !ok {
		return
	}
	delete(wr.watchers, key)
	wr.removeFromScope(watcher.GetScope(), key)
}

func (wr *WatcherRegistry) removeFromScope(scope WatcherScope, key string) {
	watchers := wr.byScope[scope]
	for i, w := range watchers {
		if w.GetKey() == key {
			wr.byScope[scope] = append(watchers[:i], watchers[i+1:]...)
			return
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// GetWatchersByScope returns all watchers for a given scope.
func (wr *WatcherRegistry) GetWatchersByScope(scope WatcherScope) []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	result := make([]Watcher, len(wr.byScope[scope]))
	copy(result, wr.byScope[scope])
	return result
}

// Keys returns all registered keys in sorted order.
func (wr *WatcherRegistry) Keys() []string {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	keys := make([]string, 0, len(wr.watchers))
	for key := range wr.watchers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ResetWatchers resets every watcher.
func (wr *WatcherRegistry) ResetWatchers() {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, watcher := range wr.watchers {
		watcher.Reset()
	}
}

// ResetWatchersByScope resets all watchers for a given scope.
func (wr *WatcherRegistry) ResetWatchersByScope(scope WatcherScope) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, watcher := range wr.byScope[scope] {
		watcher.Reset()
	}
}

// NotifyWatchers forwards an event to every watcher.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, watcher := range wr.watchers {
		watcher.Watch(event)
	}
}

// generateKey derives a key from the watcher's concrete type.
func generateKey(watcher Watcher) string {
	typeName := fmt.Sprintf("%T", watcher)
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		typeName = typeName[i+1:]
	}
	if watcher.GetScope() == WatcherScopePlayer {
		if getter, ok := watcher.(interface{ GetControllerID() string }); ok {
			if controllerID := getter.GetControllerID(); controllerID != "" {
				return controllerID + "_" + typeName
			}
		}
	}
	return typeName
}
