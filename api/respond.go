package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"slothouse/domain/entities"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondError maps the settlement error taxonomy to HTTP status
// codes. Anything unrecognized is reported as a generic failure: the
// engine has already guaranteed the balance is consistent.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidAmount):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "bet amount must be a positive currency value"})
	case errors.Is(err, entities.ErrInvalidRequestID):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "request id is missing or malformed"})
	case errors.Is(err, entities.ErrUnknownGame):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown game"})
	case errors.Is(err, entities.ErrInsufficientFunds):
		respondJSON(w, http.StatusPaymentRequired, errorResponse{Error: "insufficient funds"})
	case errors.Is(err, entities.ErrAccountNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "account not found"})
	case errors.Is(err, entities.ErrSettlementFailed):
		log.WithError(err).Error("Settlement failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "settlement failed, no funds were taken"})
	default:
		log.WithError(err).Error("Unhandled service error")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
