// Package server wires the HTTP surface: router, middleware and the search
// handlers.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipesearch/internal/api"
	"github.com/pageza/recipesearch/internal/middleware"
	"github.com/pageza/recipesearch/internal/search"
)

// Server wraps the gin router and the underlying http.Server.
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *log.Logger
}

// Option configures the server before the routes are mounted.
type Option func(*options)

type options struct {
	logger      *log.Logger
	rateLimiter *middleware.RateLimiter
}

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRateLimiter enables request rate limiting on the API routes.
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(o *options) {
		o.rateLimiter = rl
	}
}

// New builds the server around a ready search engine.
func New(engine *search.Engine, opts ...Option) *Server {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	handler := api.NewSearchHandler(engine)
	router.GET("/", handler.Root)

	group := router.Group("/api/v1")
	if o.rateLimiter != nil {
		group.Use(o.rateLimiter.Middleware())
	}
	handler.RegisterRoutes(group)

	return &Server{router: router, logger: o.logger}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves on the given address and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Printf("listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
