package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookyard/internal/auth"
	"bookyard/internal/config"
	"bookyard/internal/database"
	"bookyard/internal/models"

	"github.com/rs/zerolog"
)

// PaymentIntents is the slice of the payment processor this service uses.
type PaymentIntents interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}

// CategorySource serves the category reference list, possibly from a cache.
type CategorySource interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
}

// Server exposes the marketplace HTTP API.
type Server struct {
	cfg        *config.Config
	db         *database.DB
	tokens     *auth.Manager
	intents    PaymentIntents
	categories CategorySource
	logger     zerolog.Logger
	limiter    *clientLimiter
	server     *http.Server
}

// NewServer wires the route table and the middleware chain. intents may be
// nil when the payment processor is not configured; the intent endpoint then
// answers 503.
func NewServer(
	cfg *config.Config,
	db *database.DB,
	tokens *auth.Manager,
	intents PaymentIntents,
	categories CategorySource,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:        cfg,
		db:         db,
		tokens:     tokens,
		intents:    intents,
		categories: categories,
		logger:     logger.With().Str("component", "http").Logger(),
		limiter:    newClientLimiter(cfg.RateLimit),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /jwt", s.handleIssueToken)

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/admin/{email}", s.handleIsAdmin)
	mux.HandleFunc("GET /users/seller/{email}", s.handleIsSeller)
	mux.HandleFunc("GET /sellers", s.handleListSellers)
	mux.HandleFunc("DELETE /sellers/{id}", s.requireAdmin(s.handleDeleteSeller))
	mux.HandleFunc("GET /buyers", s.handleListBuyers)
	mux.HandleFunc("DELETE /buyers/{id}", s.requireAdmin(s.handleDeleteBuyer))
	mux.HandleFunc("PUT /sellers/verified/{id}", s.requireAdmin(s.handleVerifySeller))

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("GET /category/{id}", s.handleBooksByCategory)
	mux.HandleFunc("GET /books/{email}", s.requireToken(s.handleBooksBySeller))
	mux.HandleFunc("GET /advertisedbook", s.handleAdvertisedBooks)
	mux.HandleFunc("POST /books", s.handleCreateBook)
	mux.HandleFunc("DELETE /books/{id}", s.requireSeller(s.handleDeleteBook))
	mux.HandleFunc("PUT /reportitem/{id}", s.requireToken(s.handleReportBook))
	mux.HandleFunc("PUT /advertise/{id}", s.requireSeller(s.handleAdvertiseBook))
	mux.HandleFunc("GET /reporteditems", s.requireAdmin(s.handleReportedBooks))
	mux.HandleFunc("DELETE /reportedbook/{id}", s.requireAdmin(s.handleDeleteReportedBook))

	mux.HandleFunc("GET /bookings", s.requireToken(s.handleBookingsByBuyer))
	mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("POST /bookings", s.handleCreateBooking)

	mux.HandleFunc("POST /create-payment-intent", s.handleCreatePaymentIntent)
	mux.HandleFunc("POST /payments", s.handleSettlePayment)

	mux.HandleFunc("GET /admin/export/bookings", s.requireAdmin(s.handleExportBookings))

	handler := s.requestIDMiddleware(s.loggingMiddleware(s.rateLimitMiddleware(mux)))

	readHeaderTimeout := time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second
	writeTimeout := time.Duration(cfg.Server.WriteTimeout) * time.Second

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	return s
}

// Handler returns the fully wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "bookyard server is running")
}
