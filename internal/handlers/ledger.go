package handlers

import (
	"net/http"
	"strconv"

	"github.com/minibank/bank/internal/middleware"
)

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	ReceiverAccountNumber int64 `json:"receiver_account_number"`
	Amount                int64 `json:"amount"`
}

// Deposit handles POST /api/v1/deposits
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.ledger.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// Withdraw handles POST /api/v1/withdrawals
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.ledger.Withdraw(r.Context(), accountID, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// Transfer handles POST /api/v1/transfers
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req transferRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.ledger.Transfer(r.Context(), accountID, req.ReceiverAccountNumber, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// ListEntries handles GET /api/v1/ledger
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: "limit must be an integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.ledger.Entries(r.Context(), accountID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	responses := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}

	h.respondJSON(w, http.StatusOK, responses)
}
