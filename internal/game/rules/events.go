package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Round/phase events
	EventRoundStarted          EventType = "ROUND_STARTED"
	EventPhaseChanged          EventType = "PHASE_CHANGED"
	EventPhaseCompleted        EventType = "PHASE_COMPLETED"
	EventTurnChanged           EventType = "TURN_CHANGED"
	EventFirstPlayerDetermined EventType = "FIRST_PLAYER_DETERMINED"
	EventRoundCapturesReset    EventType = "ROUND_CAPTURES_RESET"

	// Card events
	EventHandDealt       EventType = "HAND_DEALT"
	EventCardExcluded    EventType = "CARD_EXCLUDED"
	EventCardPlayed      EventType = "CARD_PLAYED"
	EventCardDiscarded   EventType = "CARD_DISCARDED"
	EventChallengeFailed EventType = "CHALLENGE_FAILED"

	// Token events
	EventTokenStepped  EventType = "TOKEN_STEPPED"
	EventTokenMoved    EventType = "TOKEN_MOVED"
	EventTokenCaptured EventType = "TOKEN_CAPTURED"
	EventTokenFlipped  EventType = "TOKEN_FLIPPED"
	EventTokensReset   EventType = "TOKENS_RESET"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type     EventType
	ID       string
	GameID   string
	PlayerID string // acting or affected player
	TargetID string // token ref or card id
	Round    int
	Amount   int // position, steps or count depending on Type
	Flag     bool
	Data     string
	Metadata map[string]string

	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not publish or subscribe from inside the callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, gameID, playerID, targetID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		GameID:    gameID,
		PlayerID:  playerID,
		TargetID:  targetID,
		Metadata:  make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, gameID, playerID, targetID string, amount int) Event {
	evt := NewEvent(eventType, gameID, playerID, targetID)
	evt.Amount = amount
	return evt
}
