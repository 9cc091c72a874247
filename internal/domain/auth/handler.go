package auth

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Anvoria/dashboard/internal/domain/session"
	"github.com/Anvoria/dashboard/internal/metrics"
	"github.com/Anvoria/dashboard/internal/utils"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// LoginThrottle limits repeated failed logins from one client.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, time.Duration)
	Failure(ctx context.Context, key string)
	Reset(ctx context.Context, key string)
}

type noThrottle struct{}

func (noThrottle) Blocked(context.Context, string) (bool, time.Duration) { return false, 0 }
func (noThrottle) Failure(context.Context, string)                       {}
func (noThrottle) Reset(context.Context, string)                         {}

type Handler struct {
	authService   Service
	throttle      LoginThrottle
	secureCookies bool
}

// NewHandler creates the login, logout and session endpoints. secureCookies
// adds the Secure attribute and should be set in production. A nil throttle
// disables login throttling.
func NewHandler(s Service, throttle LoginThrottle, secureCookies bool) *Handler {
	if throttle == nil {
		throttle = noThrottle{}
	}
	return &Handler{authService: s, throttle: throttle, secureCookies: secureCookies}
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginBadRequest).Inc()
		return utils.ErrorResponse(c, "Password is required", fiber.StatusBadRequest)
	}

	ctx := c.UserContext()
	// c.IP() only honours the proxy header on connections from trusted proxies.
	throttleKey := c.IP()
	if blocked, retryAfter := h.throttle.Blocked(ctx, throttleKey); blocked {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginThrottled).Inc()
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Max(1, math.Ceil(retryAfter.Seconds())))))
		return utils.ErrorResponse(c, utils.ErrTooManyRequests.Message, fiber.StatusTooManyRequests)
	}

	issued, err := h.authService.Login(ctx, req.Password, session.Metadata{
		IPAddress: clientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	switch {
	case errors.Is(err, ErrPasswordNotConfigured):
		metrics.LoginAttempts.WithLabelValues(metrics.LoginMisconfigure).Inc()
		slog.Error("Login rejected, DASHBOARD_PASSWORD is not configured")
		return utils.ErrorResponse(c, "Login is not configured on this server", fiber.StatusInternalServerError)
	case errors.Is(err, ErrInvalidPassword):
		metrics.LoginAttempts.WithLabelValues(metrics.LoginInvalid).Inc()
		h.throttle.Failure(ctx, throttleKey)
		return utils.Unauthorized(c)
	case err != nil:
		metrics.LoginAttempts.WithLabelValues(metrics.LoginError).Inc()
		slog.Error("Login failed", "error", err)
		return utils.ErrorResponse(c, utils.ErrInternalServer.Message, fiber.StatusInternalServerError)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.LoginSuccess).Inc()
	h.throttle.Reset(ctx, throttleKey)
	setSessionCookie(c, issued, h.secureCookies)

	return c.JSON(fiber.Map{
		"success":   true,
		"expiresAt": issued.ExpiresAt,
	})
}

// Logout always succeeds and always clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.authService.Logout(c.UserContext(), TokenFromRequest(c))
	clearSessionCookie(c, h.secureCookies)
	return c.JSON(fiber.Map{"success": true})
}

// Session describes the caller's session. Not being logged in is not an error.
func (h *Handler) Session(c *fiber.Ctx) error {
	info, err := h.authService.Info(c.UserContext(), TokenFromRequest(c))
	if err != nil {
		slog.Warn("Failed to load session info", "error", err)
		info = nil
	}
	if info == nil {
		return c.JSON(fiber.Map{"active": false})
	}
	return c.JSON(info)
}

// RevokeAll logs out every client, including the caller.
func (h *Handler) RevokeAll(c *fiber.Ctx) error {
	n, err := h.authService.RevokeAll(c.UserContext())
	if err != nil {
		slog.Error("Failed to revoke all sessions", "error", err)
		return utils.ErrInternalServer
	}
	clearSessionCookie(c, h.secureCookies)
	return c.JSON(fiber.Map{"success": true, "revoked": n})
}

// CleanupSessions is the scheduled-job entry point for the expired session sweep.
func (h *Handler) CleanupSessions(c *fiber.Ctx) error {
	n := h.authService.CleanupExpired(c.UserContext())
	return c.JSON(fiber.Map{"success": true, "deleted": n})
}

// clientIP returns the best effort client address for display: the first
// X-Forwarded-For entry, then X-Real-IP, then the connection address.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return c.IP()
}
