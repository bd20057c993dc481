package handlers

import (
	"net/http"

	"github.com/minibank/bank/internal/middleware"
)

type updateProfileRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageFile string `json:"image_file,omitempty"`
}

type changePasswordRequest struct {
	OldPassword             string `json:"old_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

type freezeResponse struct {
	IsFrozen bool `json:"is_frozen"`
}

// GetMe handles GET /api/v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	account, err := h.registry.FindByID(r.Context(), accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// UpdateMe handles PUT /api/v1/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.registry.UpdateProfile(r.Context(), accountID, req.Username, req.Email, req.ImageFile); err != nil {
		h.respondServiceError(w, err)
		return
	}

	account, err := h.registry.FindByID(r.Context(), accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// ChangePassword handles POST /api/v1/me/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.credentials.ChangePassword(r.Context(), accountID, req.OldPassword, req.NewPassword, req.NewPasswordConfirmation)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FreezeMe handles POST /api/v1/me/freeze
func (h *Handler) FreezeMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	frozen, err := h.registry.ToggleFreeze(r.Context(), accountID, accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, freezeResponse{IsFrozen: frozen})
}
