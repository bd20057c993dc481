package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// accountResponse is the public view of an account
type accountResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	AccountNumber int64  `json:"account_number"`
	Balance       int64  `json:"balance"`
	IsFrozen      bool   `json:"is_frozen"`
	IsAdmin       bool   `json:"is_admin"`
	ImageFile     string `json:"image_file"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:            a.ID.String(),
		Username:      a.Username,
		Email:         a.Email,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		IsFrozen:      a.IsFrozen,
		IsAdmin:       a.IsAdmin,
		ImageFile:     a.ImageFile,
	}
}

type entryResponse struct {
	ID                        string `json:"id"`
	Type                      string `json:"type"`
	Amount                    int64  `json:"amount"`
	BalanceAfter              int64  `json:"balance_after"`
	CounterpartyAccountNumber *int64 `json:"counterparty_account_number,omitempty"`
	CreatedAt                 string `json:"created_at"`
}

func toEntryResponse(e *models.LedgerEntry) entryResponse {
	return entryResponse{
		ID:                        e.ID.String(),
		Type:                      string(e.Type),
		Amount:                    e.Amount,
		BalanceAfter:              e.BalanceAfter,
		CounterpartyAccountNumber: e.CounterpartyAccountNumber,
		CreatedAt:                 e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "invalid_request",
			Message: "malformed request body",
		})
		return false
	}
	return true
}

// respondServiceError maps service error codes to HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   service.ErrCodeInternalError,
			Message: "internal error",
		})
		return
	}

	h.respondJSON(w, statusForCode(svcErr.Code), errorResponse{
		Error:   svcErr.Code,
		Message: svcErr.Message,
	})
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrCodeNotAuthorized,
		service.ErrCodeAccountFrozen,
		service.ErrCodeReceiverFrozen:
		return http.StatusForbidden
	case service.ErrCodeAccountNotFound,
		service.ErrCodeReceiverNotFound,
		service.ErrCodeEmailNotFound,
		service.ErrCodeNoActiveRecovery:
		return http.StatusNotFound
	case service.ErrCodeDuplicateUsername,
		service.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
