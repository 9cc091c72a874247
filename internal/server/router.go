package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/domain/auth"
	"github.com/Anvoria/dashboard/internal/domain/session"
	"github.com/Anvoria/dashboard/internal/perimeter"
	"github.com/Anvoria/dashboard/internal/utils"
)

// Dependencies are the services the routes are built on.
type Dependencies struct {
	Sessions session.Service
	// Throttle limits failed logins. Nil disables throttling.
	Throttle auth.LoginThrottle
	// Health reports whether the session store is reachable. Nil means healthy.
	Health func(ctx context.Context) error
}

const loginPath = "/login"

// Routes is where feature endpoints are mounted once the auth routes exist.
type Routes struct {
	// API is the /api group. Every route added to it requires a session and
	// answers 401 without one.
	API fiber.Router

	app       *fiber.App
	pageGuard fiber.Handler
}

// Page registers a GET page that requires a session. Unauthenticated
// visitors are redirected to the login page and sent back after signing in.
func (r *Routes) Page(path string, handlers ...fiber.Handler) fiber.Router {
	return r.app.Get(path, append([]fiber.Handler{r.pageGuard}, handlers...)...)
}

// SetupRoutes registers the auth endpoints and returns the guarded groups
// feature endpoints are mounted on.
func SetupRoutes(app *fiber.App, cfg *config.Config, env *config.Environment, deps Dependencies) *Routes {
	if cfg.Server.InlinePerimeter {
		app.Use(perimeter.New(perimeter.DefaultConfig(env.Secrets.AutomationSecret)))
	}

	authService := auth.NewService(deps.Sessions, env.Secrets)
	guard := auth.NewGuard(deps.Sessions, env.Secrets)
	handler := auth.NewHandler(authService, deps.Throttle, env.IsProduction())

	app.Get("/healthz", healthCheck(deps.Health))
	app.Get(loginPath, loginPage(cfg.App.Name))

	app.Get("/metrics", guard.RequireSessionOrAutomationSecret(), adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", handler.Login)
	authGroup.Post("/logout", handler.Logout)
	authGroup.Get("/session", handler.Session)
	authGroup.Post("/revoke-all", guard.RequireSession(), handler.RevokeAll)

	api.Post("/cron/cleanup-sessions", guard.RequireSessionOrAutomationSecret(), handler.CleanupSessions)

	// registered last so the public auth routes above answer first
	api.Use(guard.RequireSession())

	return &Routes{
		API:       api,
		app:       app,
		pageGuard: guard.RequireSessionPage(loginPath),
	}
}

func healthCheck(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			if err := check(c.UserContext()); err != nil {
				slog.Warn("Health check failed", "error", err)
				return utils.ErrorResponse(c, "Database unavailable", fiber.StatusServiceUnavailable)
			}
		}
		return utils.SuccessResponse(c, fiber.Map{"database": "ok"}, "healthy")
	}
}
