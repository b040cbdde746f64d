package utils

import (
	"encoding/json"
	"net/http"

	"golang.org/x/exp/slog"

	"payments-sdk/models"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", slog.Any("err", err))
	}
}

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, models.APIResponse{Status: "error", Message: message})
}

func SendSuccessResponse(w http.ResponseWriter, response models.APIResponse) {
	WriteJSON(w, http.StatusOK, response)
}

// SendRawJSON writes an already encoded JSON document.
func SendRawJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("error writing response", slog.Any("err", err))
	}
}
