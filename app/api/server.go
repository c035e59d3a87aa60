package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"meetassist/app/config"
	"meetassist/app/service/assistant"
	"meetassist/app/service/history"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

const shutdownTimeout = 10 * time.Second

var _ do.Shutdownable = (*Server)(nil)

type Runner interface {
	Run(ctx context.Context, req assistant.Request) (*assistant.Result, error)
}

type History interface {
	Save(entry history.Entry)
	List() []history.Entry
}

type Server struct {
	cfg       *config.Config
	assistant Runner
	history   History
	app       *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*assistant.Service](di),
		do.MustInvoke[*history.Service](di),
	), nil
}

func NewServer(cfg *config.Config, runner Runner, hist History) *Server {
	s := &Server{
		cfg:       cfg,
		assistant: runner,
		history:   hist,
		app: fiber.New(fiber.Config{
			AppName:               "meetassist",
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
	}

	s.app.Use(recover.New())
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Post("/summarize", s.handleSummarize)
	s.app.Get("/settings", s.handleListSettings)
	s.app.Post("/settings", s.handleSaveSettings)
	s.app.Get("/assistant", s.handleAssistant)
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	slog.Info("HTTP server listening", "addr", s.cfg.HTTP.Listen)

	if err := s.app.Listen(s.cfg.HTTP.Listen); err != nil {
		return err
	}

	return nil
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
