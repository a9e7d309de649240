package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/service"
)

// statusForError maps domain sentinel errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCoupleNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOwnCode),
		errors.Is(err, domain.ErrUnsupportedGameType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrAlreadyPaired),
		errors.Is(err, domain.ErrAlreadyAnswered),
		errors.Is(err, domain.ErrCodeConsumed),
		errors.Is(err, domain.ErrInviterUnavailable),
		errors.Is(err, domain.ErrPendingDailyExists),
		errors.Is(err, domain.ErrPendingChoiceLimit),
		errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrNotCoupleMember):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoDailyRemaining),
		errors.Is(err, domain.ErrNoTicketsRemaining),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDisplayNameExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR [handlers] internal error: %v", err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
