package handlers

import (
	"net/http"

	"budget/internal/config"
	"budget/internal/middleware"
	"budget/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg        config.Config
	users      UserService
	workspaces WorkspaceProvider
	hub        *websocket.Hub
}

func New(cfg config.Config, users UserService, workspaces WorkspaceProvider, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:        cfg,
		users:      users,
		workspaces: workspaces,
		hub:        hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Get("/months", h.ListMonths)
		r.Post("/months", h.OpenMonth)
		r.Post("/months/{monthID}/close", h.CloseMonth)
		r.Get("/months/{monthID}/snapshot", h.MonthSnapshot)
		r.Get("/months/{monthID}/categories", h.CategoryTotals)
		r.Get("/months/{monthID}/allocation", h.Allocation)
		r.Get("/months/{monthID}/cashflow", h.HalfMonthCashflow)
		r.Get("/months/{monthID}/coverage", h.AccountCoverage)
		r.Get("/months/{monthID}/preview", h.MonthPreview)
		r.Get("/months/{monthID}/transactions", h.ListTransactions)
		r.Post("/transactions", h.AddTransaction)

		r.Get("/accounts", h.ListAccounts)
		r.Post("/accounts", h.CreateAccount)
		r.Put("/accounts/{id}", h.UpdateAccount)
		r.Delete("/accounts/{id}", h.DeactivateAccount)

		r.Get("/cards", h.ListCards)
		r.Post("/cards", h.CreateCard)
		r.Put("/cards/{id}", h.UpdateCard)
		r.Delete("/cards/{id}", h.DeactivateCard)

		r.Get("/fixed-expenses", h.ListFixedExpenses)
		r.Post("/fixed-expenses", h.UpsertFixedExpense)
		r.Delete("/fixed-expenses/{name}", h.DeactivateFixedExpense)

		r.Get("/income-sources", h.ListIncomeSources)
		r.Post("/income-sources", h.UpsertIncomeSource)
		r.Delete("/income-sources/{name}", h.DeactivateIncomeSource)

		r.Get("/objectives", h.ListObjectives)
		r.Post("/objectives", h.UpsertObjective)
		r.Delete("/objectives/{category}", h.DeactivateObjective)

		r.Get("/setup", h.SetupStatus)
		r.Get("/backup", h.Backup)
		r.Post("/restore", h.Restore)
	})

	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/ws/ledger", h.WSLedger)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) WSLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
