// Package deck supplies role-appropriate hands to the game engine.
package deck

import (
	"context"
	"errors"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
)

// HandSize is the number of cards a single fetch returns.
const HandSize = 5

// ErrUnknownRole is returned for a role without a deck.
var ErrUnknownRole = errors.New("unknown role")

// Service fetches a hand of HandSize cards for a role. Implementations may
// block and must honour ctx cancellation.
type Service interface {
	FetchHand(ctx context.Context, role cards.Role) ([]cards.Card, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, role cards.Role) ([]cards.Card, error)

// FetchHand calls f.
func (f ServiceFunc) FetchHand(ctx context.Context, role cards.Role) ([]cards.Card, error) {
	return f(ctx, role)
}
