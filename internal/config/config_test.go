package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.WebSocket.Address)
	assert.Equal(t, ":9090", cfg.Server.GRPC.Address)
	assert.Equal(t, 10, cfg.Game.PowerTokens)
	assert.Equal(t, 200*time.Millisecond, cfg.Game.StepInterval)
	assert.True(t, cfg.Game.AutoProgress)
	assert.Len(t, cfg.Game.Evidence, 3)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
  format: json
game:
  auto_progress: false
  power_tokens: 4
  step_interval: 50ms
  evidence:
    - id: 10
      colors: [red, blue]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Game.AutoProgress)
	assert.Equal(t, 4, cfg.Game.PowerTokens)
	assert.Equal(t, 50*time.Millisecond, cfg.Game.StepInterval)
	require.Len(t, cfg.Game.Evidence, 1)
	assert.Equal(t, EvidenceConfig{ID: 10, Colors: []string{"red", "blue"}}, cfg.Game.Evidence[0])
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WATERGATE_LOGGING_LEVEL", "warn")
	t.Setenv("WATERGATE_GAME_POWER_TOKENS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Game.PowerTokens)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Game: GameConfig{
			PowerTokens: 10,
			Evidence:    []EvidenceConfig{{ID: 1, Colors: []string{"red"}}},
		}}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Game.PowerTokens = -1
	assert.Error(t, c.Validate())

	c = base()
	c.Game.Evidence = append(c.Game.Evidence, EvidenceConfig{ID: 1, Colors: []string{"blue"}})
	assert.ErrorContains(t, c.Validate(), "duplicate id 1")

	c = base()
	c.Game.Evidence[0].Colors = []string{"red", "blue", "green"}
	assert.Error(t, c.Validate())

	c = base()
	c.DevTools.Enabled = true
	assert.ErrorContains(t, c.Validate(), "token_hash")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
