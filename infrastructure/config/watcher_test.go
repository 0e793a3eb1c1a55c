package config

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(dir, Test, nil)
	initial, err := loader.Load()
	require.NoError(t, err)

	w := NewWatcher(loader, initial, zap.NewNop())
	var got *Config
	w.OnChange(func(c *Config) { got = c })
	w.OnChange(func(*Config) { panic("bad callback") })

	changed, err := w.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "nothing on disk changed")
	assert.Nil(t, got)

	writeFile(t, dir, "test.yaml", "graph:\n  max_tag_peers: 4\n")
	changed, err = w.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Graph.MaxTagPeers)
	assert.Same(t, got, w.Config())
}

func TestWatcherKeepsConfigOnInvalidReload(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(dir, Test, nil)
	initial, err := loader.Load()
	require.NoError(t, err)
	w := NewWatcher(loader, initial, zap.NewNop())

	writeFile(t, dir, "test.yaml", "graph:\n  max_tag_peers: -1\n")
	_, err = w.Reload()

	assert.Error(t, err)
	assert.Same(t, initial, w.Config())
}

func TestWatcherPicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(dir, Development, nil)
	initial, err := loader.Load()
	require.NoError(t, err)

	w := NewWatcher(loader, initial, zap.NewNop())
	var peers atomic.Int32
	w.OnChange(func(c *Config) { peers.Store(int32(c.Graph.MaxTagPeers)) })
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, dir, "development.yaml", "graph:\n  max_tag_peers: 5\n")

	require.Eventually(t, func() bool { return peers.Load() == 5 }, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherDisabledOutsideDevelopment(t *testing.T) {
	loader := newTestLoader(t.TempDir(), Production, nil)
	initial, err := loader.Load()
	require.NoError(t, err)

	w := NewWatcher(loader, initial, zap.NewNop())
	require.NoError(t, w.Start())
	assert.Nil(t, w.fsWatcher)
	w.Stop()
	w.Stop()
}
