package server

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/watergate-game/watergate-server-go/internal/config"
	"github.com/watergate-game/watergate-server-go/internal/game"
)

// ErrInvalidDevToken is returned when a dev-tools token does not match.
var ErrInvalidDevToken = errors.New("invalid dev tools token")

// DevTools gates debug-only operations behind a shared token whose bcrypt
// hash is configured.
type DevTools struct {
	enabled bool
	hash    []byte
}

// NewDevTools builds the gate from configuration.
func NewDevTools(cfg config.DevToolsConfig) *DevTools {
	return &DevTools{
		enabled: cfg.Enabled,
		hash:    []byte(cfg.TokenHash),
	}
}

// Authorize checks token against the configured hash.
func (d *DevTools) Authorize(token string) error {
	if d == nil || !d.enabled {
		return game.ErrDevToolsDisabled
	}
	if token == "" {
		return ErrInvalidDevToken
	}
	if err := bcrypt.CompareHashAndPassword(d.hash, []byte(token)); err != nil {
		return ErrInvalidDevToken
	}
	return nil
}

// HashDevToken produces a value suitable for devtools.token_hash.
func HashDevToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
