package deck

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// Querier is the subset of *pgxpool.Pool the catalog service needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

const fetchHandQuery = `
	SELECT id, name, effect_type, action_target, action_value, description, value, token_colors
	FROM cards
	WHERE role = $1
	ORDER BY random()
	LIMIT $2`

// PostgresService deals hands from the cards table. Shuffling is done by
// the database.
type PostgresService struct {
	db     Querier
	logger *zap.Logger
}

// NewPostgresService creates a catalog service backed by db.
func NewPostgresService(db Querier, logger *zap.Logger) *PostgresService {
	return &PostgresService{db: db, logger: logger}
}

// FetchHand implements Service.
func (s *PostgresService) FetchHand(ctx context.Context, role cards.Role) ([]cards.Card, error) {
	if role.Side() == track.SideNone {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	rows, err := s.db.Query(ctx, fetchHandQuery, string(role), HandSize)
	if err != nil {
		return nil, fmt.Errorf("query cards for %s: %w", role, err)
	}
	defer rows.Close()

	hand := make([]cards.Card, 0, HandSize)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.EffectType,
			&rec.ActionTarget,
			&rec.ActionValue,
			&rec.Description,
			&rec.Value,
			&rec.TokenColors,
		); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		rec.Role = string(role)

		card, err := rec.Card()
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cards for %s: %w", role, err)
	}

	if s.logger != nil {
		s.logger.Debug("hand fetched from catalog",
			zap.String("role", string(role)),
			zap.Int("cards", len(hand)),
		)
	}
	return hand, nil
}

// Record is a flat catalog row, shared by the catalog service and the
// CSV import script.
type Record struct {
	ID           string
	Role         string
	Name         string
	EffectType   string
	ActionTarget string
	ActionValue  int
	Description  string
	Value        int
	TokenColors  string
}

// Card validates the record and converts it to a card.
func (r Record) Card() (cards.Card, error) {
	role, err := cards.ParseRole(r.Role)
	if err != nil {
		return cards.Card{}, fmt.Errorf("card %s: %w", r.ID, err)
	}

	effect := cards.EffectType(strings.TrimSpace(r.EffectType))
	switch effect {
	case cards.EffectMoveToken, cards.EffectDiscardOpponentCard:
	default:
		return cards.Card{}, fmt.Errorf("card %s: unknown effect type %q", r.ID, r.EffectType)
	}

	target := cards.ActionTarget(strings.ToLower(strings.TrimSpace(r.ActionTarget)))
	switch target {
	case cards.TargetNone, cards.TargetInitiative, cards.TargetPower, cards.TargetEvidence, cards.TargetAny:
	default:
		return cards.Card{}, fmt.Errorf("card %s: unknown action target %q", r.ID, r.ActionTarget)
	}

	colors, err := ParseColorList(r.TokenColors)
	if err != nil {
		return cards.Card{}, fmt.Errorf("card %s: %w", r.ID, err)
	}

	// Values always point toward the owning role's edge.
	value := r.Value
	if value < 0 {
		value = -value
	}
	value *= role.Side().Direction()

	return cards.Card{
		ID:   r.ID,
		Name: r.Name,
		Action: cards.ActionPart{
			Effect:      effect,
			Target:      target,
			Description: r.Description,
			Value:       r.ActionValue,
		},
		Value: cards.ValuePart{Value: value, TokenColors: colors},
	}, nil
}

// ParseColorList parses a separator-delimited color list such as
// "red|blue" or "red,blue". An empty string yields no colors.
func ParseColorList(value string) ([]track.Color, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == '|' || r == ',' || r == ';' || r == ' '
	})
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields) > 2 {
		return nil, fmt.Errorf("at most two colors allowed, got %d", len(fields))
	}
	colors := make([]track.Color, 0, len(fields))
	for _, f := range fields {
		c, err := track.ParseColor(f)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}
