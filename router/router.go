package router

import (
	"go-ledger-api/handler"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-ledger-api/docs"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      *handler.HealthHandler
	User        *handler.UserHandler
	Session     *handler.SessionHandler
	Statement   *handler.StatementHandler
	Tokens      handler.TokenParser
	Idempotency handler.IdempotencyStorer
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handler.IdempotencyKeyHeader},
		ExposedHeaders:   []string{handler.IdempotentReplayedHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Check)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", handler.ErrorHandlingMiddleware(h.User.Register))
		r.Post("/sessions", handler.ErrorHandlingMiddleware(h.Session.CreateSession))

		r.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware(h.Tokens))

			r.Get("/profile", handler.ErrorHandlingMiddleware(h.User.Profile))

			r.Route("/statements", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(handler.IdempotencyMiddleware(h.Idempotency))
					r.Post("/deposit", handler.ErrorHandlingMiddleware(h.Statement.Deposit))
					r.Post("/withdraw", handler.ErrorHandlingMiddleware(h.Statement.Withdraw))
				})
				r.Get("/balance", handler.ErrorHandlingMiddleware(h.Statement.Balance))
				r.Get("/{statement_id}", handler.ErrorHandlingMiddleware(h.Statement.GetStatement))
			})
		})
	})

	return r
}
