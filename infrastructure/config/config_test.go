package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestLoader(dir string, env Environment, vars map[string]string) *Loader {
	l := NewLoader(dir, env)
	l.getenv = func(key string) string { return vars[key] }
	return l
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := newTestLoader(t.TempDir(), Production, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, []string{"defaults"}, cfg.LoadedFrom)
	assert.Equal(t, 500, cfg.Graph.MaxRenderedSessions)
	assert.Equal(t, 300*time.Millisecond, cfg.Graph.DoubleClickWindow)
	assert.Equal(t, StoreMemory, cfg.Settings.Backend)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
logging:
  level: warn
graph:
  max_tag_peers: 3
  double_click_window: 250ms
orbit:
  resume_delay: 5s
settings:
  backend: badger
  badger_dir: /tmp/settings
`)
	writeFile(t, dir, "test.yaml", `
logging:
  level: error
`)

	cfg, err := newTestLoader(dir, Test, map[string]string{
		"THOUGHTGRAPH_MAX_SESSIONS": "42",
		"REDIS_DB":                  "not a number",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level, "environment file wins over base")
	assert.Equal(t, 3, cfg.Graph.MaxTagPeers)
	assert.Equal(t, 250*time.Millisecond, cfg.Graph.DoubleClickWindow)
	assert.Equal(t, 6.0, cfg.Graph.SessionBaseSize, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Orbit.ResumeDelay)
	assert.Equal(t, StoreBadger, cfg.Settings.Backend)
	assert.Equal(t, 42, cfg.Graph.MaxRenderedSessions)
	assert.Equal(t, 0, cfg.Settings.Redis.DB)
	assert.Equal(t, []string{
		"defaults",
		filepath.Join(dir, "base.yaml"),
		filepath.Join(dir, "test.yaml"),
		"environment",
	}, cfg.LoadedFrom)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		base string
		vars map[string]string
	}{
		{name: "unknown key", base: "graph:\n  colour: red\n"},
		{name: "bad yaml", base: "graph: [\n"},
		{name: "bad log level", base: "logging:\n  level: loud\n"},
		{name: "badger without dir", base: "settings:\n  backend: badger\n"},
		{name: "redis without addr", vars: map[string]string{"THOUGHTGRAPH_SETTINGS_BACKEND": "redis", "REDIS_ADDR": ""}, base: "settings:\n  redis:\n    addr: \"\"\n"},
		{name: "supabase without credentials", vars: map[string]string{"THOUGHTGRAPH_NOTES_SOURCE": "supabase"}},
		{name: "invalid graph tunables", base: "graph:\n  max_tag_peers: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.base != "" {
				writeFile(t, dir, "base.yaml", tt.base)
			}
			_, err := newTestLoader(dir, Test, tt.vars).Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvironmentFileCannotChangeEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "environment: production\n")

	cfg, err := newTestLoader(dir, Development, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "console", cfg.Logging.Format)
}
