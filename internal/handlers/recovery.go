package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type recoveryRequest struct {
	Email string `json:"email"`
}

type recoveryResponse struct {
	Token string `json:"token"`
}

type confirmRecoveryRequest struct {
	Token                   string `json:"token"`
	OTP                     string `json:"otp"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// RequestRecovery handles POST /api/v1/recovery
func (h *Handler) RequestRecovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.recoverer.RequestRecovery(r.Context(), req.Email)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, recoveryResponse{Token: token})
}

// ConfirmRecovery handles POST /api/v1/recovery/confirm
func (h *Handler) ConfirmRecovery(w http.ResponseWriter, r *http.Request) {
	var req confirmRecoveryRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.recoverer.ConfirmRecovery(r.Context(), req.Token, req.OTP, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AbandonRecovery handles DELETE /api/v1/recovery/{token}
func (h *Handler) AbandonRecovery(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.recoverer.AbandonRecovery(r.Context(), token); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
