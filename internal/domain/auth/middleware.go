package auth

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/credential"
	"github.com/Anvoria/dashboard/internal/domain/session"
	"github.com/Anvoria/dashboard/internal/metrics"
	"github.com/Anvoria/dashboard/internal/perimeter"
	"github.com/Anvoria/dashboard/internal/security"
	"github.com/Anvoria/dashboard/internal/utils"
)

const (
	// CallerKey is the key used to store the Caller in Fiber context
	CallerKey = "caller"
)

// CallerKind tells how a request was authenticated
type CallerKind string

const (
	CallerSession    CallerKind = "session"
	CallerAutomation CallerKind = "automation"
)

// Caller is the authenticated principal of a request. Token is only set for
// session callers.
type Caller struct {
	Kind  CallerKind
	Token string
}

// Guard is the authoritative origin-tier check. Every protected handler must
// sit behind one of its middlewares; the perimeter tier only filters.
type Guard struct {
	sessions         session.Service
	automationSecret string
	cmp              security.Comparator
}

// NewGuard creates a Guard validating sessions through sessions.
func NewGuard(sessions session.Service, secrets config.Secrets) *Guard {
	return &Guard{
		sessions:         sessions,
		automationSecret: secrets.AutomationSecret,
		cmp:              security.DigestComparator{},
	}
}

// RequireSession admits only requests carrying a valid session cookie.
func (g *Guard) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, reason := g.sessionCaller(c)
		if caller == nil {
			return reject(c, reason)
		}
		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

// RequireSessionPage guards browser pages. Instead of a 401 body the caller
// is sent to loginPath with the requested URL as redirect target.
func (g *Guard) RequireSessionPage(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := g.sessionCaller(c)
		if caller == nil {
			metrics.GuardRejections.WithLabelValues(metrics.TierOrigin, "page_redirect").Inc()
			return c.Redirect(perimeter.LoginRedirect(loginPath, c.OriginalURL()), fiber.StatusTemporaryRedirect)
		}
		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

// RequireSessionOrAutomationSecret also admits non-interactive callers
// presenting the automation secret as a bearer token. The bearer is checked
// first so schedulers never need a session. A bearer sent while no secret is
// configured is a deployment error and answered with 500 instead of 401.
func (g *Guard) RequireSessionOrAutomationSecret() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.automationAuthorized(c) {
			metrics.AutomationCalls.WithLabelValues(metrics.TierOrigin).Inc()
			c.Locals(CallerKey, &Caller{Kind: CallerAutomation})
			return c.Next()
		}

		caller, reason := g.sessionCaller(c)
		if caller == nil {
			if g.automationSecret == "" && hasBearer(c) {
				metrics.GuardRejections.WithLabelValues(metrics.TierOrigin, "automation_unconfigured").Inc()
				slog.Error("Bearer credential rejected, AUTOMATION_SECRET is not configured", "path", c.Path())
				return utils.ErrorResponse(c, "Automation access is not configured on this server", fiber.StatusInternalServerError)
			}
			return reject(c, reason)
		}
		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

func hasBearer(c *fiber.Ctx) bool {
	_, ok := credential.Bearer(c.Get(fiber.HeaderAuthorization))
	return ok
}

func (g *Guard) automationAuthorized(c *fiber.Ctx) bool {
	// An unset secret never matches, not even an empty bearer.
	if g.automationSecret == "" {
		return false
	}
	bearer, ok := credential.Bearer(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return false
	}
	return g.cmp.Equal(bearer, g.automationSecret)
}

func (g *Guard) sessionCaller(c *fiber.Ctx) (*Caller, string) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, "missing_token"
	}
	if !g.sessions.Validate(c.UserContext(), token) {
		return nil, "invalid_session"
	}
	return &Caller{Kind: CallerSession, Token: token}, ""
}

func reject(c *fiber.Ctx, reason string) error {
	metrics.GuardRejections.WithLabelValues(metrics.TierOrigin, reason).Inc()
	return utils.Unauthorized(c)
}

// GetCaller extracts the caller from Fiber context
func GetCaller(c *fiber.Ctx) *Caller {
	caller, ok := c.Locals(CallerKey).(*Caller)
	if !ok {
		return nil
	}
	return caller
}
