package server

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Anvoria/dashboard/internal/cache"
	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/database"
	"github.com/Anvoria/dashboard/internal/domain/session"
	"github.com/Anvoria/dashboard/internal/migrations"
	"github.com/Anvoria/dashboard/internal/utils"
)

// Start initializes logging, connects to PostgreSQL and Redis, runs migrations,
// starts the session janitor, registers routes and serves until shutdown.
// It returns an error if any startup step fails.
func Start(cfg *config.Config, env *config.Environment) error {
	utils.InitLogger(cfg.Logging.Level)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()
	slog.Info("Database connected successfully")

	if err := migrations.RunMigrations(cfg); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return err
	}
	slog.Info("Migrations completed successfully")

	rdb, err := cache.ConnectRedis(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		return err
	}
	defer func() {
		if err := cache.CloseRedis(rdb); err != nil {
			slog.Warn("Failed to close Redis", "error", err)
		}
	}()
	if rdb == nil {
		slog.Info("Redis disabled, login throttling is off")
	}

	sessions := session.NewService(session.NewRepository(db))

	janitor := session.NewJanitor(sessions, cfg.Auth.CleanupInterval())
	janitor.Start()
	defer janitor.Stop()

	app := NewApp(cfg)
	SetupRoutes(app, cfg, env, Dependencies{
		Sessions: sessions,
		Throttle: cache.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow()),
		Health: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	addr := cfg.Server.Address()
	slog.Info("Server starting",
		"address", addr,
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", env.Environment.String(),
		"inline_perimeter", cfg.Server.InlinePerimeter,
	)
	return utils.Serve(app, addr)
}

// NewApp creates the fiber app with the global middleware stack and no routes.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                 cfg.App.Name,
		BodyLimit:               64 * 1024,
		ProxyHeader:             cfg.Server.ProxyHeader,
		EnableTrustedProxyCheck: cfg.Server.ProxyHeader != "",
		TrustedProxies:          cfg.Server.TrustedProxies,
		EnableIPValidation:      true,
		ErrorHandler:            utils.ErrorHandler,
		DisableStartupMessage:   true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Use Helmet for security headers
	app.Use(helmet.New())

	if cfg.Server.RateLimit.Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimit.Max,
			Expiration: time.Duration(cfg.Server.RateLimit.Expiration) * time.Second,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return utils.ErrorResponse(c, utils.ErrTooManyRequests.Message, fiber.StatusTooManyRequests)
			},
		}))
	}

	if origins := cfg.Server.AllowedOrigins; len(origins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(origins, ","),
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization",
			// fiber refuses credentials together with a wildcard origin
			AllowCredentials: !slices.Contains(origins, "*"),
			MaxAge:           3600,
		}))
	}

	return app
}
