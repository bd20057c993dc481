package handlers

import (
	"net/http"
)

type registerRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

// Register handles POST /api/v1/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.registry.Register(r.Context(), req.Username, req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toAccountResponse(account))
}

// Login handles POST /api/v1/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.registry.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(account.ID, account.IsAdmin)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "internal error",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, loginResponse{
		Token:   token,
		Account: toAccountResponse(account),
	})
}
