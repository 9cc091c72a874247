package perimeter

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Anvoria/dashboard/internal/credential"
	"github.com/Anvoria/dashboard/internal/metrics"
	"github.com/Anvoria/dashboard/internal/security"
	"github.com/Anvoria/dashboard/internal/utils"
)

// Config configures the edge filter
type Config struct {
	// AutomationSecret admits bearer callers. Empty disables the bearer path.
	AutomationSecret string

	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath string

	// PublicPaths are always allowed. Entries ending in '/' match as prefixes.
	PublicPaths []string

	// APIPrefixes select paths answered with 401 JSON instead of a redirect.
	APIPrefixes []string

	// Comparator overrides the secret comparison, mainly for tests.
	Comparator security.Comparator
}

// DefaultConfig returns the routes of the dashboard.
func DefaultConfig(automationSecret string) Config {
	return Config{
		AutomationSecret: automationSecret,
		LoginPath:        "/login",
		PublicPaths:      []string{"/login", "/api/auth/", "/healthz", "/favicon.ico"},
		APIPrefixes:      []string{"/api/", "/metrics"},
	}
}

// New returns the edge filter middleware. See the package documentation for
// why passing this filter proves nothing about the session.
func New(cfg Config) fiber.Handler {
	if cfg.Comparator == nil {
		cfg.Comparator = loopComparator{}
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()

		// 1. login page and auth bootstrap endpoints
		if matchAny(path, cfg.PublicPaths) {
			return c.Next()
		}

		// 2. automation callers
		if cfg.AutomationSecret != "" {
			if bearer, ok := credential.Bearer(c.Get(fiber.HeaderAuthorization)); ok && cfg.Comparator.Equal(bearer, cfg.AutomationSecret) {
				metrics.AutomationCalls.WithLabelValues(metrics.TierPerimeter).Inc()
				return c.Next()
			}
		}

		// 3. a correctly shaped session cookie must be present
		if !credential.WellFormed(credential.FromCookieHeader(c.Get(fiber.HeaderCookie))) {
			if isAPI(path, cfg.APIPrefixes) {
				metrics.GuardRejections.WithLabelValues(metrics.TierPerimeter, "api_no_cookie").Inc()
				return utils.Unauthorized(c)
			}

			metrics.GuardRejections.WithLabelValues(metrics.TierPerimeter, "page_redirect").Inc()
			slog.Debug("Redirecting unauthenticated request to login", "path", path)
			return c.Redirect(LoginRedirect(cfg.LoginPath, c.OriginalURL()), fiber.StatusTemporaryRedirect)
		}

		// 4. shape is fine, the origin decides
		return c.Next()
	}
}

// LoginRedirect builds the login URL that returns the user to original
// (path and query) after signing in.
func LoginRedirect(loginPath, original string) string {
	if original == "" || original == "/" {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(original)
}

func matchAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}

func isAPI(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
