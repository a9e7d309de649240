package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mins/twogether/internal/api/middleware"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/service"
)

type PairingHandler struct {
	pairingService *service.PairingService
}

func NewPairingHandler(pairingService *service.PairingService) *PairingHandler {
	return &PairingHandler{pairingService: pairingService}
}

type InviteResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ValidateInviteResponse struct {
	Code               string    `json:"code"`
	InviterID          string    `json:"inviterId"`
	InviterDisplayName string    `json:"inviterDisplayName"`
	ExpiresAt          time.Time `json:"expiresAt"`
}

type AcceptInviteRequest struct {
	AnniversaryDate string `json:"anniversaryDate"`
}

func (h *PairingHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	invite, err := h.pairingService.GenerateCode(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, InviteResponse{
		Code:      invite.Code,
		ExpiresAt: invite.ExpiresAt,
	})
}

func (h *PairingHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	invite, err := h.pairingService.ValidateCode(r.Context(), chi.URLParam(r, "code"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ValidateInviteResponse{
		Code:      invite.Code,
		InviterID: invite.InviterID.String(),
		ExpiresAt: invite.ExpiresAt,
	}
	if invite.Inviter != nil {
		resp.InviterDisplayName = invite.Inviter.DisplayName
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PairingHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	couple, err := h.pairingService.AcceptInvite(r.Context(), chi.URLParam(r, "code"), userID, req.AnniversaryDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, couple)
}

func (h *PairingHandler) Unpair(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	if err := h.pairingService.Unpair(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
