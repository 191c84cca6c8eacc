package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// validate checks payload structs against their constraint tags.
var validate = validator.New()

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps a domain error to a status code and emits the
// {"error": string} shape every endpoint uses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *apperrors.ValidationError:
		status = http.StatusBadRequest
	case *apperrors.AuthenticationError:
		status = http.StatusUnauthorized
	case *apperrors.ConflictError:
		status = http.StatusConflict
	case *apperrors.NotFoundError:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		err = apperrors.NewInternalError()
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeBadRequest emits a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
