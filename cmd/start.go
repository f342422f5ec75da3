package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relationship-manager/core/loader"
	"relationship-manager/core/logger"
	"relationship-manager/core/middleware/auth"
	"relationship-manager/core/middleware/rayid"
	"relationship-manager/feature/integrity"
	"relationship-manager/feature/relationships"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "relationship-manager/docs/swagger"
)

// @title Relationship Manager API
// @version 1.0
// @description API for validating, repairing and rebuilding studio/artist relationships.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the relationship manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger and connections
		s, err := newSession(true)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer s.close()
		cfg, logg := s.cfg, s.logger
		zap.ReplaceGlobals(logg)

		if err := cfg.Server.Validate(); err != nil {
			logg.Fatal("Invalid server configuration", zap.Error(err))
		}

		// 2. Relationship service over the configured mirrors
		var svc *relationships.Service
		if svc, err = s.service(context.Background()); err != nil {
			logg.Error("Relationships feature disabled", zap.Error(err))
			svc = nil
		} else {
			logg.Info("Relationship mirrors opened",
				zap.String("source", cfg.Relationships.Source),
				zap.Strings("mirrors", cfg.Relationships.Mirrors))
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:          time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		})

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(relationships.NewFeature(svc))
		mgr.Register(integrity.NewFeature(integrity.NewService(s.deps, logg)))

		// RayID must be first to trace everything.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not set; requests are not authenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
