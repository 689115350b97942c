// Package server exposes the search engine over HTTP.
//
// The server trusts an upstream proxy for authentication and reads the
// caller identity from the X-User-ID header.
package server

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/ladle-sh/ladle/internal/config"
	"github.com/ladle-sh/ladle/internal/db"
	"github.com/ladle-sh/ladle/internal/search"
	"github.com/ladle-sh/ladle/internal/telemetry"
	"github.com/ladle-sh/ladle/pkg/version"
)

// Server wires the search service into a fiber app.
type Server struct {
	app       *fiber.App
	db        *db.DB
	search    *search.Service
	validate  *validator.Validate
	telemetry telemetry.Client
	cfg       config.ServerConfig

	// limiters holds one search rate limiter per caller id.
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

// New creates the HTTP server and registers its routes.
func New(database *db.DB, searchSvc *search.Service, tel telemetry.Client, cfg config.ServerConfig) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "ladle " + version.Short(),
		DisableStartupMessage: true,
	})

	s := &Server{
		app:       app,
		db:        database,
		search:    searchSvc,
		validate:  validator.New(),
		telemetry: tel,
		cfg:       cfg,
		limiters:  make(map[string]*rate.Limiter),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api/v1", s.requireUser)
	api.Get("/search", s.rateLimitSearch, s.handleSearch)
	api.Get("/recipes/:id", s.handleGetRecipe)
	api.Get("/history", s.handleListHistory)
	api.Delete("/history", s.handleClearHistory)
	api.Delete("/history/:query", s.handleDeleteHistory)
}

// requireUser rejects requests without a caller identity. The header is
// set by the reverse proxy after authentication.
func (s *Server) requireUser(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return errorResponse(c, fiber.StatusUnauthorized, "missing X-User-ID header")
	}
	c.Locals("user_id", userID)
	return c.Next()
}

// rateLimitSearch bounds the search endpoint per caller id. Other
// endpoints are cheap enough to leave unthrottled.
func (s *Server) rateLimitSearch(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if !s.limiterFor(userID).Allow() {
		return errorResponse(c, fiber.StatusTooManyRequests, "search rate limit exceeded")
	}
	return c.Next()
}

// limiterFor returns the caller's limiter, creating it on first use.
func (s *Server) limiterFor(userID string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	l, ok := s.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.cfg.SearchRatePerSecond), s.cfg.SearchRateBurst)
		s.limiters[userID] = l
	}
	return l
}

// Listen blocks serving HTTP on the configured address.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
