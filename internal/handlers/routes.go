package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minibank/bank/internal/auth"
	"github.com/minibank/bank/internal/config"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/events"
	"github.com/minibank/bank/internal/middleware"
	"github.com/minibank/bank/internal/recovery"
	"github.com/minibank/bank/internal/repository"
	"github.com/minibank/bank/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	sessions recovery.Store,
	publisher events.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	registryService := service.NewRegistryService(database, publisher, logger)
	ledgerService := service.NewLedgerService(database, publisher, logger, cfg.Ledger.MinDepositAmount)
	recoveryService := service.NewRecoveryService(database, sessions, publisher, logger, cfg.Auth.OTPLifetime)
	credentialService := service.NewCredentialService(database)
	postService := service.NewPostService(database, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	handler := NewHandler(registryService, ledgerService, recoveryService, credentialService, postService, tokens, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", handler.Health(database))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)

		r.Post("/recovery", handler.RequestRecovery)
		r.Post("/recovery/confirm", handler.ConfirmRecovery)
		r.Delete("/recovery/{token}", handler.AbandonRecovery)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			idempotencyRepo := repository.NewIdempotencyRepository(database)
			r.Use(middleware.Idempotency(idempotencyRepo, logger))

			r.Get("/me", handler.GetMe)
			r.Put("/me", handler.UpdateMe)
			r.Post("/me/password", handler.ChangePassword)
			r.Post("/me/freeze", handler.FreezeMe)

			r.Post("/deposits", handler.Deposit)
			r.Post("/withdrawals", handler.Withdraw)
			r.Post("/transfers", handler.Transfer)
			r.Get("/ledger", handler.ListEntries)

			r.Get("/posts", handler.ListPosts)
			r.Post("/posts", handler.CreatePost)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/accounts", handler.ListAccounts)
				r.Post("/accounts/{id}/freeze", handler.FreezeAccount)
			})
		})
	})

	return r
}
