// Package edge runs the perimeter filter as a reverse proxy in front of the
// origin server. It has no database access and cannot validate sessions.
package edge

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/perimeter"
	"github.com/Anvoria/dashboard/internal/utils"
)

const proxyTimeout = 30 * time.Second

// ErrOriginRequired is returned when neither edge.origin_url nor EDGE_ORIGIN_URL is set.
var ErrOriginRequired = errors.New("edge origin url is required")

// Start builds the edge app and serves until shutdown.
func Start(cfg *config.Config, env *config.Environment) error {
	utils.InitLogger(cfg.Logging.Level)

	app, err := NewApp(cfg, env)
	if err != nil {
		slog.Error("Failed to configure edge", "error", err)
		return err
	}

	addr := cfg.Edge.Address()
	slog.Info("Edge starting", "address", addr, "origin", OriginURL(cfg, env))
	return utils.Serve(app, addr)
}

// NewApp creates the edge app: the perimeter filter followed by a proxy to the origin.
func NewApp(cfg *config.Config, env *config.Environment) (*fiber.App, error) {
	origin, err := parseOrigin(OriginURL(cfg, env))
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name + " edge",
		ErrorHandler:          utils.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use(perimeter.New(perimeter.DefaultConfig(env.Secrets.AutomationSecret)))

	app.Use(proxy.Balancer(proxy.Config{
		Servers:       []string{origin},
		Timeout:       proxyTimeout,
		ModifyRequest: forwardHeaders,
	}))

	return app, nil
}

// OriginURL returns EDGE_ORIGIN_URL when set, else edge.origin_url.
func OriginURL(cfg *config.Config, env *config.Environment) string {
	if env != nil && env.OriginURL != "" {
		return env.OriginURL
	}
	return cfg.Edge.OriginURL
}

func parseOrigin(raw string) (string, error) {
	if raw == "" {
		return "", ErrOriginRequired
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid edge origin url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid edge origin url %q: want http(s)://host[:port]", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// forwardHeaders tells the origin who the client is. The address is display
// metadata only; the origin never authorizes on it.
func forwardHeaders(c *fiber.Ctx) error {
	ip := c.IP()
	header := &c.Request().Header

	if prior := c.Get(fiber.HeaderXForwardedFor); prior != "" {
		header.Set(fiber.HeaderXForwardedFor, prior+", "+ip)
	} else {
		header.Set(fiber.HeaderXForwardedFor, ip)
	}
	header.Set("X-Real-IP", ip)
	header.Set(fiber.HeaderXForwardedProto, c.Protocol())
	header.Set(fiber.HeaderXForwardedHost, c.Hostname())

	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		header.Set(fiber.HeaderXRequestID, rid)
	}
	return nil
}
