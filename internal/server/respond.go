package server

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced in the response envelope. Scoring failures never
// appear here: those candidates are dropped silently.
const (
	kindValidation    = "validation"
	kindTranscription = "transcription"
	kindAnalysis      = "analysis"
	kindStorage       = "storage"
	kindNotFound      = "not_found"
	kindUnauthorized  = "unauthorized"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}
