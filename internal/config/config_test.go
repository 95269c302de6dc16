package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "userdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8484", cfg.Addr)
	assert.Equal(t, "300ms", cfg.Latency)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
addr: ":9999"
latency: 50ms
theme:
  variant: dark
schema:
  source: api/openapi.yaml
  operation: createUser
seed:
  - firstName: Alice
    lastName: Johnson
    email: alice@example.com
    phone: "1234567890"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, "api/openapi.yaml", cfg.Schema.Source)
	assert.Equal(t, "createUser", cfg.Schema.Operation)

	latency, err := cfg.ParseLatency()
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, latency)

	seeds := cfg.SeedDrafts()
	require.Len(t, seeds, 1)
	assert.Equal(t, "Alice", seeds[0].Value("firstName"))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "theme:\n  variant: dark\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8484", cfg.Addr)
	assert.Equal(t, "300ms", cfg.Latency)
	assert.Equal(t, "dark", cfg.Theme.Variant)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "addr: [unterminated")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseLatency(t *testing.T) {
	cfg := Config{Latency: "2s"}
	latency, err := cfg.ParseLatency()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, latency)

	cfg.Latency = "-1s"
	_, err = cfg.ParseLatency()
	assert.Error(t, err)

	cfg.Latency = "soon"
	_, err = cfg.ParseLatency()
	assert.Error(t, err)

	cfg.Latency = ""
	latency, err = cfg.ParseLatency()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), latency)
}
