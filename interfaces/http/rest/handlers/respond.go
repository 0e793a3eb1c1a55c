// Package handlers serves the inspection API over the running graph.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	pkgerrors "thoughtgraph/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		resp.Error = appErr.Message
		resp.Code = appErr.Code
		switch appErr.Type {
		case pkgerrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case pkgerrors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case pkgerrors.ErrorTypeUnavailable, pkgerrors.ErrorTypeExternal:
			status = http.StatusServiceUnavailable
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, resp)
}
