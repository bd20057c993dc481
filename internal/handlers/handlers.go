// Package handlers implements the HTTP surface over the core services.
package handlers

import (
	"log/slog"

	"github.com/minibank/bank/internal/auth"
	"github.com/minibank/bank/internal/service"
)

// Handler bundles the core services behind the JSON endpoints
type Handler struct {
	registry    service.Registry
	ledger      service.Ledger
	recoverer   service.Recoverer
	credentials service.PasswordChanger
	posts       service.Poster
	tokens      *auth.TokenManager
	logger      *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	registry service.Registry,
	ledger service.Ledger,
	recoverer service.Recoverer,
	credentials service.PasswordChanger,
	posts service.Poster,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry:    registry,
		ledger:      ledger,
		recoverer:   recoverer,
		credentials: credentials,
		posts:       posts,
		tokens:      tokens,
		logger:      logger,
	}
}
