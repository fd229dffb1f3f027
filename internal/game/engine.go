// Package game implements the round and token-movement engine: one Engine
// per game owns the board, both players and the round state, and exposes
// the operations a presentation layer invokes.
package game

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/config"
	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/deck"
	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
	"github.com/watergate-game/watergate-server-go/internal/game/watchers"
)

// Config holds the rule parameters of a single game.
type Config struct {
	AutoProgress bool
	PowerTokens  int
	DeckSize     int
	Evidence     []track.Evidence
}

// DefaultConfig returns the standard setup: auto-progress on, ten power
// tokens and one single-colored evidence token per color.
func DefaultConfig() Config {
	return Config{
		AutoProgress: true,
		PowerTokens:  10,
		DeckSize:     20,
		Evidence: []track.Evidence{
			{ID: 1, Colors: []track.Color{track.ColorRed}},
			{ID: 2, Colors: []track.Color{track.ColorBlue}},
			{ID: 3, Colors: []track.Color{track.ColorGreen}},
		},
	}
}

// ConfigFromSettings converts the loaded game settings.
func ConfigFromSettings(settings config.GameConfig) (Config, error) {
	cfg := Config{
		AutoProgress: settings.AutoProgress,
		PowerTokens:  settings.PowerTokens,
		DeckSize:     settings.DeckSize,
		Evidence:     make([]track.Evidence, 0, len(settings.Evidence)),
	}
	for _, e := range settings.Evidence {
		colors := make([]track.Color, 0, len(e.Colors))
		for _, name := range e.Colors {
			c, err := track.ParseColor(name)
			if err != nil {
				return Config{}, fmt.Errorf("evidence %d: %w", e.ID, err)
			}
			colors = append(colors, c)
		}
		cfg.Evidence = append(cfg.Evidence, track.Evidence{ID: e.ID, Colors: colors})
	}
	return cfg, nil
}

// Engine is the single writer of one game's state. Every exported method
// takes the engine lock, so collaborators called under it (the deck
// service, event listeners) must not call back into the engine.
type Engine struct {
	id     string
	logger *zap.Logger
	mu     sync.Mutex

	deck    deck.Service
	board   *track.Board
	players map[string]*Player
	order   []string
	byRole  map[cards.Role]string
	rounds  *rules.RoundManager

	autoProgress   bool
	powerTotal     int
	powerRemaining int

	moving    *Move
	selection *selection

	events      *rules.EventBus
	watchers    *rules.WatcherRegistry
	cardsPlayed *watchers.CardsPlayedWatcher
	captures    *watchers.TokensCapturedWatcher
	tokenMoves  *watchers.TokenMovesWatcher
	replay      *Replay
}

// NewEngine creates a game for exactly two players holding distinct roles.
// No round is started; call StartNewRound or StartPreparationPhase.
func NewEngine(id string, players []PlayerSpec, deckService deck.Service, cfg Config, logger *zap.Logger) (*Engine, error) {
	if deckService == nil {
		return nil, fmt.Errorf("game %s: deck service is required", id)
	}
	if len(players) != 2 {
		return nil, fmt.Errorf("%w: got %d players", ErrInvalidPlayers, len(players))
	}

	e := &Engine{
		id:             id,
		logger:         logger,
		deck:           deckService,
		board:          track.NewBoard(cfg.Evidence),
		players:        make(map[string]*Player, 2),
		order:          make([]string, 0, 2),
		byRole:         make(map[cards.Role]string, 2),
		autoProgress:   cfg.AutoProgress,
		powerTotal:     max(cfg.PowerTokens, 0),
		powerRemaining: max(cfg.PowerTokens, 0),
		events:         rules.NewEventBus(),
		watchers:       rules.NewWatcherRegistry(),
		cardsPlayed:    watchers.NewCardsPlayedWatcher(),
		captures:       watchers.NewTokensCapturedWatcher(),
		tokenMoves:     watchers.NewTokenMovesWatcher(),
		replay:         NewReplay(id),
	}

	for _, spec := range players {
		spec.ID = strings.TrimSpace(spec.ID)
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: empty player id", ErrInvalidPlayers)
		}
		if spec.Role.Side() == track.SideNone {
			return nil, fmt.Errorf("%w: player %s has unknown role %q", ErrInvalidPlayers, spec.ID, spec.Role)
		}
		if _, dup := e.players[spec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidPlayers, spec.ID)
		}
		if _, dup := e.byRole[spec.Role]; dup {
			return nil, fmt.Errorf("%w: role %s taken twice", ErrInvalidPlayers, spec.Role)
		}
		e.players[spec.ID] = newPlayer(spec, cfg.DeckSize)
		e.order = append(e.order, spec.ID)
		e.byRole[spec.Role] = spec.ID
	}

	seen := make(map[int]bool, len(cfg.Evidence))
	for _, ev := range cfg.Evidence {
		if seen[ev.ID] {
			return nil, fmt.Errorf("game %s: duplicate evidence id %d", id, ev.ID)
		}
		seen[ev.ID] = true
	}

	rounds, err := rules.NewRoundManager(e.order[0], e.order[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayers, err)
	}
	e.rounds = rounds

	e.watchers.AddWatcher(e.cardsPlayed)
	e.watchers.AddWatcher(e.captures)
	e.watchers.AddWatcher(e.tokenMoves)
	e.events.Subscribe(e.watchers.NotifyWatchers)

	e.replay.RecordState(e.snapshotLocked())

	if e.logger != nil {
		e.logger.Info("game created",
			zap.String("game_id", id),
			zap.Strings("players", e.order),
			zap.Int("evidence", len(cfg.Evidence)),
			zap.Bool("auto_progress", e.autoProgress),
		)
	}
	return e, nil
}

// ID returns the game id.
func (e *Engine) ID() string { return e.id }

// Players returns the registered player ids in registration order.
func (e *Engine) Players() []string {
	return slices.Clone(e.order)
}

// PlayerForRole returns the id of the player holding role.
func (e *Engine) PlayerForRole(role cards.Role) (string, bool) {
	id, ok := e.byRole[role]
	return id, ok
}

// Subscribe registers a listener for every rules event of this game.
// Listeners run under the engine lock and must not call back into it.
func (e *Engine) Subscribe(listener rules.Listener) int {
	return e.events.Subscribe(listener)
}

// Unsubscribe removes a listener registered with Subscribe.
func (e *Engine) Unsubscribe(handle int) {
	e.events.Unsubscribe(handle)
}

// CurrentPlayer returns the id of the player whose turn it is, empty
// outside the Card phase of a started round.
func (e *Engine) CurrentPlayer() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rounds.CurrentPlayer()
}

// Replay returns the phase-transition log.
func (e *Engine) Replay() *Replay { return e.replay }

// SetAutoProgress toggles automatic phase chaining.
func (e *Engine) SetAutoProgress(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoProgress = enabled

	if e.logger != nil {
		e.logger.Debug("auto progress changed",
			zap.String("game_id", e.id),
			zap.Bool("enabled", enabled),
		)
	}
}

// AutoProgress reports whether phases chain automatically.
func (e *Engine) AutoProgress() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoProgress
}

// Moving reports whether a presentation-driven move is in flight.
func (e *Engine) Moving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moving != nil
}

// PowerTokensRemaining returns the number of power tokens left in the pool.
func (e *Engine) PowerTokensRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.powerRemaining
}

// CapturedThisRound returns how many tokens of tokenType playerID captured
// during the current round.
func (e *Engine) CapturedThisRound(playerID string, tokenType track.TokenType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.captures.Count(playerID, string(tokenType))
}

// CompletedMoves returns how many moves of the referenced token finished
// over the whole game.
func (e *Engine) CompletedMoves(ref track.Ref) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tokenMoves.Moves(ref.String())
}

func (e *Engine) publish(evt rules.Event) {
	evt.Round = e.rounds.Round()
	e.events.Publish(evt)
}

func (e *Engine) recordLocked() {
	e.replay.RecordState(e.snapshotLocked())
}

func (e *Engine) playerLocked(id string) (*Player, error) {
	p, ok := e.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return p, nil
}
