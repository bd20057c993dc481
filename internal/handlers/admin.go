package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/minibank/bank/internal/middleware"
)

// ListAccounts handles GET /api/v1/admin/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.registry.ListAccounts(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	responses := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}

	h.respondJSON(w, http.StatusOK, responses)
}

// FreezeAccount handles POST /api/v1/admin/accounts/{id}/freeze
func (h *Handler) FreezeAccount(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "invalid account id"})
		return
	}

	frozen, err := h.registry.ToggleFreeze(r.Context(), actorID, targetID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, freezeResponse{IsFrozen: frozen})
}
