package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hotel-event-indexer/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// OutcomeEnvelope wraps the result of handling one notification.
type OutcomeEnvelope struct {
	MessageID  string `json:"message_id"`
	DocumentID string `json:"document_id"`
	Duplicate  bool   `json:"duplicate"`
	Result     string `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// httpError maps a handling failure to a status code by its kind.
func httpError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindMalformedEnvelope:
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.KindDependency:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
