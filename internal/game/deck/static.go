package deck

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
)

// StaticService deals from the built-in role decks. Each fetch shuffles a
// fresh copy of the role's deck and returns the first HandSize cards.
type StaticService struct {
	mu     sync.Mutex
	rng    *rand.Rand
	decks  map[cards.Role][]cards.Card
	logger *zap.Logger
}

// NewStaticService creates a service over the built-in decks. The seed makes
// shuffles reproducible.
func NewStaticService(seed uint64, logger *zap.Logger) *StaticService {
	return NewStaticServiceWithDecks(seed, map[cards.Role][]cards.Card{
		cards.RoleNixon:  cards.Deck(cards.RoleNixon),
		cards.RoleEditor: cards.Deck(cards.RoleEditor),
	}, logger)
}

// NewStaticServiceWithDecks creates a service over caller-provided decks.
func NewStaticServiceWithDecks(seed uint64, decks map[cards.Role][]cards.Card, logger *zap.Logger) *StaticService {
	copied := make(map[cards.Role][]cards.Card, len(decks))
	for role, list := range decks {
		copied[role] = cards.CloneAll(list)
	}
	return &StaticService{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		decks:  copied,
		logger: logger,
	}
}

// FetchHand implements Service.
func (s *StaticService) FetchHand(ctx context.Context, role cards.Role) ([]cards.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.decks[role]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	shuffled := cards.CloneAll(source)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := min(HandSize, len(shuffled))
	hand := shuffled[:n]

	if s.logger != nil {
		s.logger.Debug("hand fetched",
			zap.String("role", string(role)),
			zap.Int("cards", n),
		)
	}
	return hand, nil
}
