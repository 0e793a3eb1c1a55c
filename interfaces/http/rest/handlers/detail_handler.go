package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"thoughtgraph/infrastructure/messaging"
)

// DetailHandler exposes the last detail request raised by a click
type DetailHandler struct {
	details *messaging.DetailRecorder
	logger  *zap.Logger
}

// NewDetailHandler creates a detail handler
func NewDetailHandler(details *messaging.DetailRecorder, logger *zap.Logger) *DetailHandler {
	return &DetailHandler{details: details, logger: logger}
}

// GetLastDetail handles GET /detail
func (h *DetailHandler) GetLastDetail(w http.ResponseWriter, r *http.Request) {
	event, ok := h.details.Last()
	if !ok {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no detail requested yet"})
		return
	}
	respondJSON(w, http.StatusOK, event)
}
