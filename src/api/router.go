package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"fintrack-server/src/config"
	"fintrack-server/src/db"
	"fintrack-server/src/handlers"
	"fintrack-server/src/ledger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/util"
)

func NewRouter(pool *pgxpool.Pool, cache *db.Cache, svc *ledger.Service, cfg config.Config, log zerolog.Logger) *chi.Mux {
	auth := handlers.AuthConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}
	return newRouter(pool, cache, svc, cfg, auth, middleware.PoolUserLookup(pool), log)
}

func newRouter(pool *pgxpool.Pool, cache *db.Cache, svc *ledger.Service, cfg config.Config, auth handlers.AuthConfig, lookup middleware.UserLookup, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.ReadOnlyMiddleware(cfg.ReadOnly))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusNotFound, "route not found")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			util.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
		})

		r.Post("/auth/register", handlers.Register(pool, auth))
		r.Post("/auth/login", handlers.Login(pool, auth))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(auth.Secret, lookup)).Group(func(r chi.Router) {
			// User
			r.Get("/auth/me", handlers.Me())
			r.Put("/auth/me", handlers.UpdateProfile(pool))
			r.Post("/auth/change-password", handlers.ChangePassword(pool))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Get("/transactions", handlers.GetTransactions(pool))
			r.Get("/transactions/summary", handlers.GetSummary(svc))
			r.Get("/transactions/{id}", handlers.GetTransactionByID(pool))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool, cache))
			r.Get("/categories", handlers.GetCategories(pool, cache))
			r.Put("/categories/{id}", handlers.UpdateCategory(pool, cache))
			r.Delete("/categories/{id}", handlers.DeleteCategory(pool, cache))

			// Reports
			r.Get("/reports/monthly", handlers.GetMonthlyReport(svc))
			r.Get("/reports/export/csv", handlers.ExportCSV(svc))
		})

		// Admin routes
		r.With(middleware.JWTAuthMiddleware(auth.Secret, lookup), middleware.RequireRole("admin")).Group(func(r chi.Router) {
			r.Post("/admin/cache/clear", handlers.ClearCache(cache))
		})
	})

	return r
}
