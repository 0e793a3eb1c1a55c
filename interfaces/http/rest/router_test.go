package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thoughtgraph/infrastructure/clock"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/di"
)

const notesJSON = `[
  {"id": "a", "title": "A", "tags": ["x"], "messages": [{"id": "m1", "content": "hello"}]},
  {"id": "b", "title": "B", "tags": ["x"], "messages": [{"id": "m2", "content": "world"}]}
]`

func newTestServer(t *testing.T) (*httptest.Server, *di.Container) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(notesJSON), 0o600))

	cfg := config.Defaults(config.Test)
	cfg.Logging.Level = "error"
	cfg.Notes.File = path

	c, cleanup, err := di.InitializeContainer(context.Background(), cfg, clock.NewManual(time.Unix(0, 0)))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, err = c.Graph.Reload(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(c, []string{"http://localhost:5173"}).Setup())
	t.Cleanup(srv.Close)
	return srv, c
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/health", "").StatusCode)

	resp := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "thoughtgraph_graph_builds_total")
}

func TestToggleAndScene(t *testing.T) {
	srv, _ := newTestServer(t)

	var scene struct {
		Nodes    []map[string]interface{} `json:"nodes"`
		Expanded []string                 `json:"expanded"`
	}
	decode(t, do(t, http.MethodGet, srv.URL+"/api/v1/scene", ""), &scene)
	assert.Len(t, scene.Nodes, 2)
	assert.Empty(t, scene.Expanded)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/sessions/a/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	decode(t, do(t, http.MethodGet, srv.URL+"/api/v1/scene", ""), &scene)
	assert.Len(t, scene.Nodes, 3)
	assert.Equal(t, []string{"a"}, scene.Expanded)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, srv.URL+"/api/v1/sessions/nope/toggle", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, srv.URL+"/api/v1/nodes/nope/click", "").StatusCode)
}

func TestClickRecordsDetail(t *testing.T) {
	srv, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/api/v1/detail", "").StatusCode)

	// The clock does not move, so the second click lands inside the double-click window.
	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, srv.URL+"/api/v1/nodes/a/click", "").StatusCode)
	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, srv.URL+"/api/v1/nodes/a/click", "").StatusCode)

	var detail struct {
		EventType string `json:"event_type"`
		SessionID string `json:"session_id"`
	}
	resp := do(t, http.MethodGet, srv.URL+"/api/v1/detail", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &detail)
	assert.Equal(t, "session.detail_requested", detail.EventType)
	assert.Equal(t, "a", detail.SessionID)

	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, srv.URL+"/api/v1/nodes/idea-text-a-m1/click", "").StatusCode)
	decode(t, do(t, http.MethodGet, srv.URL+"/api/v1/detail", ""), &detail)
	assert.Equal(t, "idea.detail_requested", detail.EventType)
}

func TestPatchSettings(t *testing.T) {
	srv, c := newTestServer(t)

	resp := do(t, http.MethodPatch, srv.URL+"/api/v1/settings", `{"linkWidth": "2.5", "orbitSpeed": "6"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.5, c.Settings.Current().LinkWidth)
	assert.Equal(t, 6.0, c.Orbit.State().UserSpeed)
	assert.Equal(t, 2.5, c.Renderer.Scene().LinkWidth)

	resp = do(t, http.MethodPatch, srv.URL+"/api/v1/settings", `{"linkWidth": "3", "sessionColor": "blue"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 2.5, c.Settings.Current().LinkWidth, "a rejected patch changes nothing")

	resp = do(t, http.MethodPatch, srv.URL+"/api/v1/settings", `[1]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrbitPause(t *testing.T) {
	srv, _ := newTestServer(t)

	var state struct {
		Paused bool `json:"paused"`
	}
	decode(t, do(t, http.MethodPost, srv.URL+"/api/v1/orbit/pause", ""), &state)
	assert.True(t, state.Paused)
	decode(t, do(t, http.MethodGet, srv.URL+"/api/v1/orbit", ""), &state)
	assert.True(t, state.Paused)
}
