package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/niftyscreen/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var verr contracts.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, contracts.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrNoData):
		return http.StatusServiceUnavailable
	case errors.Is(err, contracts.ErrUnavailable):
		return http.StatusNotFound
	case errors.Is(err, contracts.ErrNetworkFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
