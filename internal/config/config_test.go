package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunkmeter.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[artifacts]
model = "/srv/model.json"
rank = "https://example.com/pcfgrank"
watch = false

[server]
listen = "0.0.0.0:8080"
max_password_bytes = 256

[logging]
level = "debug"
format = "json"
output = "stdout"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/model.json", cfg.Artifacts.Model)
	assert.Equal(t, "https://example.com/pcfgrank", cfg.Artifacts.Rank)
	assert.False(t, cfg.Artifacts.Watch)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	assert.Equal(t, 256, cfg.Server.MaxPasswordBytes)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunkmeter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
artifacts:
  model: model.json
  rank: rank.json
server:
  listen: "127.0.0.1:9000"
  max_password_bytes: 512
logging:
  level: warn
  format: text
  output: stderr
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHUNKMETER_MODEL", "/env/model.json")
	t.Setenv("CHUNKMETER_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/model.json", cfg.Artifacts.Model)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Listen = "no-port"
	cfg.Logging.Level = "loud"
	cfg.Artifacts.Model = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.listen")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "artifacts.model")
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[server]
listen = "nope"
`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
