// Package httpapi wires the HTTP surface of the account service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tinoosan/finapi/internal/service/account"
	"github.com/tinoosan/finapi/internal/service/statement"
)

// Options tunes the behaviour of the HTTP surface.
type Options struct {
	// Currency is the ISO code amounts in request bodies are read in.
	// Defaults to the store's currency.
	Currency string
	// Location decides which calendar day an operation belongs to.
	Location *time.Location
	// Now stamps new operations. Defaults to time.Now.
	Now func() time.Time
	// LegacyStatus answers every domain error with 400 instead of 404/409.
	LegacyStatus bool
	// CORSOrigins defaults to all origins.
	CORSOrigins []string
}

// Server wires handlers and middleware using Chi.
type Server struct {
	accountSvc   account.Service
	statementSvc statement.Service
	ready        ReadyChecker
	legacyStatus bool
	log          *slog.Logger
	rt           *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging, panic recovery and domain events.
func New(store Store, logger *slog.Logger, opts Options) *Server {
	if opts.Currency == "" {
		opts.Currency = store.Currency()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", customerHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s := &Server{
		accountSvc: account.New(store, store),
		statementSvc: statement.New(store, store, opts.Currency,
			statement.WithLocation(opts.Location),
			statement.WithClock(opts.Now),
		),
		ready:        store,
		legacyStatus: opts.LegacyStatus,
		rt:           r,
		log:          logger,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
	s.rt.With(s.validatePostAccount()).Post("/account", s.postAccount)

	// Everything else is scoped to the customer named by the cpf header.
	s.rt.Group(func(r chi.Router) {
		r.Use(s.requireCustomer)
		r.Get("/account", s.getAccount)
		r.With(s.validatePutAccount()).Put("/account", s.putAccount)
		r.Delete("/account", s.deleteAccount)
		r.Get("/statement", s.getStatement)
		r.With(s.validateStatementDate()).Get("/statement/date", s.getStatementByDate)
		r.With(s.validateDeposit()).Post("/deposit", s.postDeposit)
		r.With(s.validateWithdraw()).Post("/withdraw", s.postWithdraw)
		r.Get("/balance", s.getBalance)
	})

	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())
}
