package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/api/middleware"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/service"
)

type CoupleHandler struct {
	coupleService *service.CoupleService
	authService   *service.AuthService
}

func NewCoupleHandler(coupleService *service.CoupleService, authService *service.AuthService) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
		authService:   authService,
	}
}

// currentCouple resolves the authenticated caller and their couple id.
func currentCouple(r *http.Request, authService *service.AuthService) (userID, coupleID uuid.UUID, err error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, uuid.Nil, domain.ErrUnauthenticated
	}

	user, err := authService.GetUserByID(r.Context(), userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !user.IsPaired() {
		return uuid.Nil, uuid.Nil, domain.ErrCoupleNotFound
	}
	return userID, *user.CoupleID, nil
}

func (h *CoupleHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, coupleID, err := currentCouple(r, h.authService)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.coupleService.GetState(r.Context(), coupleID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
