package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"thoughtgraph/application/services"
)

// OrbitHandler exposes the orbit controller
type OrbitHandler struct {
	orbit  *services.OrbitController
	logger *zap.Logger
}

// NewOrbitHandler creates an orbit handler
func NewOrbitHandler(orbit *services.OrbitController, logger *zap.Logger) *OrbitHandler {
	return &OrbitHandler{orbit: orbit, logger: logger}
}

// GetOrbit handles GET /orbit
func (h *OrbitHandler) GetOrbit(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orbit.State())
}

// TogglePause handles POST /orbit/pause
func (h *OrbitHandler) TogglePause(w http.ResponseWriter, r *http.Request) {
	paused := h.orbit.TogglePause()
	h.logger.Debug("orbit pause toggled", zap.Bool("paused", paused))
	respondJSON(w, http.StatusOK, h.orbit.State())
}
