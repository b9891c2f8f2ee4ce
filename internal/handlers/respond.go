package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps application errors onto JSON error bodies. Anything
// outside the taxonomy becomes a 500 with the detail kept out of the body.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	if appErr.Type == apperrors.TypeInternal {
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, appErr.HTTPStatus, map[string]string{
		"error": appErr.Message,
		"type":  string(appErr.Type),
	})
}
