package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"thoughtgraph/application/services"
	"thoughtgraph/domain/settings"
	pkgerrors "thoughtgraph/pkg/errors"
)

// SettingsHandler reads and changes the display settings
type SettingsHandler struct {
	settings *services.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(svc *services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: svc, logger: logger}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.settings.Current())
}

// PatchSettings handles PATCH /settings with a JSON object of field to value
// strings, applied together or not at all
func (h *SettingsHandler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var changes map[string]string
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		respondError(w, h.logger, pkgerrors.NewValidationError("body must be an object of field to value strings"))
		return
	}

	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	updated, err := h.settings.Update(r.Context(), func(s *settings.DisplaySettings) error {
		for _, field := range fields {
			if err := s.SetField(field, changes[field]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ResetSettings handles DELETE /settings
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	reset, err := h.settings.Reset(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, reset)
}
