package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"thoughtgraph/application/services"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/infrastructure/render"
)

// GraphHandler exposes the scene and simulates interaction with it
type GraphHandler struct {
	graph    *services.GraphService
	adapter  *services.RenderAdapter
	renderer *render.Headless
	logger   *zap.Logger
}

// NewGraphHandler creates a graph handler
func NewGraphHandler(graph *services.GraphService, adapter *services.RenderAdapter, renderer *render.Headless, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{graph: graph, adapter: adapter, renderer: renderer, logger: logger}
}

type sceneResponse struct {
	render.Scene
	Expanded []valueobjects.NodeID `json:"expanded"`
	Stats    aggregates.Stats      `json:"stats"`
}

// GetScene handles GET /scene
func (h *GraphHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	expanded := h.adapter.Expanded()
	if expanded == nil {
		expanded = []valueobjects.NodeID{}
	}
	respondJSON(w, http.StatusOK, sceneResponse{
		Scene:    h.renderer.Scene(),
		Expanded: expanded,
		Stats:    h.graph.Snapshot().Stats(),
	})
}

// Reload handles POST /graph/reload
func (h *GraphHandler) Reload(w http.ResponseWriter, r *http.Request) {
	result, err := h.graph.Reload(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":   result.Snapshot.Stats(),
		"skipped": len(result.Skipped),
	})
}

// ToggleSession handles POST /sessions/{sessionID}/toggle
func (h *GraphHandler) ToggleSession(w http.ResponseWriter, r *http.Request) {
	id := valueobjects.NodeID(chi.URLParam(r, "sessionID"))
	if err := h.adapter.Toggle(id); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"expanded": h.adapter.Expanded()})
}

// ClickNode handles POST /nodes/{nodeID}/click
func (h *GraphHandler) ClickNode(w http.ResponseWriter, r *http.Request) {
	id := valueobjects.NodeID(chi.URLParam(r, "nodeID"))
	if err := h.renderer.Click(id); err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HoverNode handles POST /nodes/{nodeID}/hover
func (h *GraphHandler) HoverNode(w http.ResponseWriter, r *http.Request) {
	h.renderer.Hover(valueobjects.NodeID(chi.URLParam(r, "nodeID")))
	w.WriteHeader(http.StatusNoContent)
}

// ClearHover handles DELETE /hover
func (h *GraphHandler) ClearHover(w http.ResponseWriter, r *http.Request) {
	h.renderer.Hover("")
	w.WriteHeader(http.StatusNoContent)
}

// ClickBackground handles POST /background/click
func (h *GraphHandler) ClickBackground(w http.ResponseWriter, r *http.Request) {
	h.renderer.ClickBackground()
	w.WriteHeader(http.StatusNoContent)
}
