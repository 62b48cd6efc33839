package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/avegas/cashfolio/internal/modules/dca"
	"github.com/avegas/cashfolio/internal/modules/export"
	"github.com/avegas/cashfolio/internal/modules/quotes"
	"github.com/avegas/cashfolio/internal/modules/recommendations"
	"github.com/avegas/cashfolio/internal/modules/valuation"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DevMode bool

	Quotes          *quotes.Handler
	Valuation       *valuation.Handler
	DCA             *dca.Handler
	Recommendations *recommendations.Handler
	Export          *export.Handler
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	port   int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		port:   cfg.Port,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cfg Config) {
	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.handleSystemStatus)

		// Market data
		r.Get("/quote/{ticker}", cfg.Quotes.HandleQuote)
		r.Get("/history/{ticker}", cfg.Quotes.HandleHistory)
		r.Post("/batch", cfg.Quotes.HandleBatch)
		r.Get("/ticker/{ticker}/format", cfg.Quotes.HandleFormat)
		r.Get("/watchlist", cfg.Quotes.HandleWatchlist)

		// Portfolio
		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/value", cfg.Valuation.HandleValue)
			r.Post("/performance", cfg.Valuation.HandlePerformance)
			r.Get("/history", cfg.Valuation.HandleHistory)
		})

		// Strategy
		r.Post("/dca", cfg.DCA.HandleSimulate)
		r.Get("/recommendations/{ticker}", cfg.Recommendations.HandleGet)

		// Export
		r.Route("/export", func(r chi.Router) {
			r.Post("/csv", cfg.Export.HandleCSV)
			r.Post("/json", cfg.Export.HandleJSON)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
