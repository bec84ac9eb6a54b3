package stream

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/automover/internal/scene"
)

const commandTimeout = 2 * time.Second

// Controller is the scene as seen by the API.
type Controller interface {
	Statuses() []scene.Status
	Status(name string) (scene.Status, bool)
	Do(ctx context.Context, name string, cmd scene.Command) error
}

// Server is the HTTP and WebSocket front of a scene.
type Server struct {
	app *fiber.App
	hub *Hub
	ctl Controller
	log *zap.Logger
}

// NewServer creates the server. hub must be running while clients are
// connected.
func NewServer(ctl Controller, hub *Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{ctl: ctl, hub: hub, log: log}

	app := fiber.New(fiber.Config{
		AppName:               "AutoMover",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/movers", s.handleList)
	api.Get("/movers/:name", s.handleGet)
	api.Post("/movers/:name/:command", s.handleCommand)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/poses", websocket.New(s.handlePoses))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("pose stream listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleList(c *fiber.Ctx) error {
	return c.JSON(s.ctl.Statuses())
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	st, ok := s.ctl.Status(c.Params("name"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown mover"})
	}
	return c.JSON(st)
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	name := c.Params("name")
	cmd, err := scene.ParseCommand(c.Params("command"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), commandTimeout)
	defer cancel()

	switch err := s.ctl.Do(ctx, name, cmd); {
	case errors.Is(err, scene.ErrUnknownMover):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "scene not responding"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.log.Info("command", zap.String("mover", name), zap.Stringer("command", cmd))
	return c.JSON(fiber.Map{"mover": name, "command": cmd.String()})
}

// handlePoses greets the client with the current statuses and then
// streams frames.
func (s *Server) handlePoses(conn *websocket.Conn) {
	greeting, err := json.Marshal(fiber.Map{"movers": s.ctl.Statuses()})
	if err != nil {
		s.log.Error("encoding greeting", zap.Error(err))
		conn.Close()
		return
	}
	s.hub.serve(conn, greeting)
}
