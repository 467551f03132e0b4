// Package sceneserver serves whole scenes over HTTP for the editor's
// load and save-to-server flows.
package sceneserver

import (
	"errors"
	"net"
	"regexp"

	"RoomEditor/internal/config"
	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"
	"RoomEditor/internal/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const keyPrefix = "scenes/"

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type Options struct {
	Config  config.Server
	Metrics *metrics.Metrics
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

type Server struct {
	app     *fiber.App
	kv      storage.KV
	metrics *metrics.Metrics
}

func New(kv storage.KV, opts Options) *Server {
	s := &Server{kv: kv, metrics: opts.Metrics}

	s.app = fiber.New(fiber.Config{
		AppName:      "Room Editor Scenes",
		ReadTimeout:  opts.Config.ReadTimeout,
		WriteTimeout: opts.Config.WriteTimeout,
		BodyLimit:    opts.Config.BodyLimit,
		ErrorHandler: errorHandler,
	})

	s.app.Use(requestLogger(opts.Metrics))
	s.app.Use(recover.New())
	if opts.Config.Environment == "development" {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"*"},
			AllowMethods: []string{"GET", "PUT", "DELETE"},
		}))
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s.app.Get("/health/live", liveness)
	s.app.Get("/health/ready", s.readiness)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	scenes := s.app.Group("/scenes")
	scenes.Get("/:id", s.getScene)
	scenes.Put("/:id", s.putScene)
	scenes.Delete("/:id", s.deleteScene)
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error {
	logger.Log.Info("Scene server listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logger.Log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
