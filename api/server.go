// Package api exposes the generation capability and the mood log over HTTP.
package api

import (
	"errors"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
	"github.com/papercomputeco/vertexprobe/pkg/mood"
)

// Server is the HTTP API. The capability must already be configured: the
// server only calls Generate.
type Server struct {
	config     Config
	capability llm.Capability
	moods      mood.Store
	logger     *zap.Logger
	app        *fiber.App
	metrics    *metrics
	now        func() time.Time
}

// NewServer creates a Server and registers its routes.
func NewServer(config Config, capability llm.Capability, moods mood.Store, logger *zap.Logger) (*Server, error) {
	if capability == nil {
		return nil, errors.New("capability is required")
	}
	if moods == nil {
		return nil, errors.New("mood store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	s := &Server{
		config:     config,
		capability: capability,
		moods:      moods,
		logger:     logger,
		app:        app,
		metrics:    newMetrics(),
		now:        time.Now,
	}

	app.Get("/health", s.handleHealth)
	app.Get("/api/ping", s.handlePing)
	app.Post("/api/chat", s.handleChat)
	app.Post("/api/mood", s.handleMood)
	app.Get("/metrics", s.metrics.handler())

	return s, nil
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting api server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("project", s.config.Project),
		zap.String("region", s.config.Region),
		zap.String("model", s.config.Model),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting api server", zap.String("listen", ln.Addr().String()))
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
