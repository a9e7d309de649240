package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/service"
)

type GameHandler struct {
	gameService *service.GameService
	authService *service.AuthService
}

func NewGameHandler(gameService *service.GameService, authService *service.AuthService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		authService: authService,
	}
}

type StartDailyRequest struct {
	Purchased bool `json:"purchased"`
}

type StartChoiceRequest struct {
	Type      string `json:"type"`
	Purchased bool   `json:"purchased"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

func (h *GameHandler) StartDaily(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		writeError(w, err)
		return
	}

	var req StartDailyRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.gameService.StartDaily(r.Context(), coupleID, userID, req.Purchased)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *GameHandler) StartChoice(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		writeError(w, err)
		return
	}

	var req StartChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	gameType := domain.GameType(req.Type)
	if !gameType.IsChoice() {
		writeError(w, domain.ErrUnsupportedGameType)
		return
	}

	result, err := h.gameService.StartChoice(r.Context(), coupleID, userID, gameType, req.Purchased)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		writeError(w, err)
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Answer == "" {
		http.Error(w, "Answer is required", http.StatusBadRequest)
		return
	}

	result, err := h.gameService.SubmitAnswer(r.Context(), coupleID, sessionID, userID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *GameHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		// A caller who just lost their couple sees an empty list, not an
		// error; the unpair race is benign.
		if err == domain.ErrCoupleNotFound {
			writeJSON(w, http.StatusOK, []*domain.GameSession{})
			return
		}
		writeError(w, err)
		return
	}

	sessions, err := h.gameService.GetPending(r.Context(), coupleID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *GameHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		if err == domain.ErrCoupleNotFound {
			writeJSON(w, http.StatusOK, []service.HistoryEntry{})
			return
		}
		writeError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.gameService.GetHistory(r.Context(), coupleID, userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
