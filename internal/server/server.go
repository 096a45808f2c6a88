package server

import (
	"log"
	"os"

	"video-labeling-be/internal/bootstrap"
	"video-labeling-be/internal/config"
	"video-labeling-be/internal/dto"
	"video-labeling-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Video.MaxUploadSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type, Content-Range, Accept-Ranges",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/healthcheck", healthcheck(cfg))

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AnnotationController.RegisterRoutes(api)
	c.VideoController.RegisterRoutes(api)
}

func healthcheck(cfg *config.Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		stat, err := os.Stat(cfg.Video.UploadDir)
		return ctx.JSON(dto.HealthcheckResponse{
			Status:          "ok",
			UploadDir:       cfg.Video.UploadDir,
			UploadDirExists: err == nil && stat.IsDir(),
		})
	}
}
