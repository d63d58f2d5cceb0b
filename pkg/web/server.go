// Package web serves the behavior engine over HTTP: a perception ingest
// websocket, a command stream websocket and a small REST control API.
package web

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/hub"
)

// Engine is the part of behavior.Engine the server drives.
type Engine interface {
	Submit(ev behavior.Event) error
	Configure(u behavior.ParamUpdate) error
	Snapshot() behavior.Snapshot
}

// Options configures a Server.
type Options struct {
	Addr      string // listen address, e.g. ":8090"
	RobotName string
	Logger    *slog.Logger
	Now       func() time.Time // stamps samples that arrive without a timestamp
}

// Server hosts the engine's transports.
type Server struct {
	app      *fiber.App
	addr     string
	robot    string
	engine   Engine
	commands *hub.Hub
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates a server publishing commands through the given hub.
func NewServer(engine Engine, commands *hub.Hub, opts Options) *Server {
	s := &Server{
		addr:     opts.Addr,
		robot:    opts.RobotName,
		engine:   engine,
		commands: commands,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.addr == "" {
		s.addr = ":8090"
	}
	if s.robot == "" {
		s.robot = "robot"
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "web")
	if s.now == nil {
		s.now = time.Now
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-behavior",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(s.requestID)

	// API routes
	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/state", s.handleState)
	api.Post("/state/:name", s.handleSetState)
	api.Get("/params", s.handleGetParams)
	api.Put("/params", s.handlePutParams)
	api.Post("/catalog/reload", s.handleReloadCatalog)
	api.Post("/events/:type", s.handleEvent)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/perception", websocket.New(s.handlePerceptionWS))
	app.Get("/ws/commands", websocket.New(s.handleCommandsWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.addr, "robot", s.robot)
	return s.app.Listen(s.addr)
}

// Shutdown stops the listener and closes open connections.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals("request_id", id)

	err := c.Next()
	s.logger.Debug("request",
		"id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode())
	return err
}

// topics splits a comma-separated ?topics= filter.
func topics(q string) []string {
	if q == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
