// tasks/http/server.go
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberfs "github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/tasks/domain"
	"github.com/vinizap/lumi/tasks/events"
	"github.com/vinizap/lumi/tasks/web"
)

// TaskStore is the persistence the handlers need. *filesystem.Store
// satisfies it.
type TaskStore interface {
	List() ([]domain.Task, error)
	Create(t domain.Task) (domain.Task, error)
	Update(id string, p domain.Patch) (domain.Task, error)
	Delete(id string) error
}

type Server struct {
	store     TaskStore
	hub       *events.Hub
	log       zerolog.Logger
	heartbeat time.Duration
}

func NewServer(store TaskStore, hub *events.Hub, log zerolog.Logger) *Server {
	return &Server{
		store:     store,
		hub:       hub,
		log:       log.With().Str("component", "http").Logger(),
		heartbeat: 15 * time.Second,
	}
}

// App wires routes and middleware. allowOrigins is a comma separated CORS
// origin list, "*" for any.
func (s *Server) App(allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "lumi-tasks",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(s.log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,If-None-Match",
	}))

	app.Get("/healthz", s.HandleHealth)

	app.Get("/tasks", s.HandleListTasks)
	app.Post("/tasks", s.HandleCreateTask)
	app.Put("/tasks/:id", s.HandleUpdateTask)
	app.Delete("/tasks/:id", s.HandleDeleteTask)

	app.Get("/events", s.HandleEvents)

	app.Use("/", fiberfs.New(fiberfs.Config{
		Root:  http.FS(web.FS()),
		Index: "index.html",
	}))

	return app
}

// handleError renders errors that escape a handler as {error: "..."}.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(errorResponse{Error: msg})
}
