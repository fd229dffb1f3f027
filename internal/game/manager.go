package game

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/deck"
)

// Manager keeps the active games of a server process.
type Manager struct {
	mu     sync.RWMutex
	games  map[string]*Engine
	deck   deck.Service
	config Config
	logger *zap.Logger
}

// NewManager creates a manager whose games share one deck service and one
// rule configuration.
func NewManager(deckService deck.Service, cfg Config, logger *zap.Logger) *Manager {
	return &Manager{
		games:  make(map[string]*Engine),
		deck:   deckService,
		config: cfg,
		logger: logger,
	}
}

// CreateGame registers a new game under a fresh id. No round is started.
func (m *Manager) CreateGame(players []PlayerSpec) (*Engine, error) {
	id := uuid.New().String()

	var logger *zap.Logger
	if m.logger != nil {
		logger = m.logger.With(zap.String("game_id", id))
	}

	engine, err := NewEngine(id, players, m.deck, m.config, logger)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	m.mu.Lock()
	m.games[id] = engine
	m.mu.Unlock()
	return engine, nil
}

// Get returns a game by id.
func (m *Manager) Get(id string) (*Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	engine, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return engine, nil
}

// Remove drops a game. It reports whether the game existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return false
	}
	delete(m.games, id)

	if m.logger != nil {
		m.logger.Info("game removed", zap.String("game_id", id))
	}
	return true
}

// List returns the ids of all games in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of active games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
