package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError переводит доменную ошибку в HTTP-статус.
// Неопознанные ошибки — сбои зависимостей, наружу уходит только 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAlreadyExists):
		writeMessage(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, domain.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "Token is not valid")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, userMessage(err))
	default:
		log.Printf("internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// userMessage отдает текст без технической обертки вокруг сентинела.
func userMessage(err error) string {
	return err.Error()
}
