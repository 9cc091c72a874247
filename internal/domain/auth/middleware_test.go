package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anvoria/dashboard/internal/config"
)

const (
	validToken       = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"
	automationSecret = "cron-s3cret"
)

func setupGuardApp(sessions *MockSessionService, secrets config.Secrets) *fiber.App {
	guard := NewGuard(sessions, secrets)
	app := fiber.New()

	echo := func(c *fiber.Ctx) error {
		caller := GetCaller(c)
		if caller == nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.JSON(fiber.Map{"kind": caller.Kind, "token": caller.Token})
	}

	app.Get("/api/session-only", guard.RequireSession(), echo)
	app.Post("/api/cron", guard.RequireSessionOrAutomationSecret(), echo)
	app.Get("/reports", guard.RequireSessionPage("/login"), echo)
	return app
}

func decodeMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func assertUnauthorized(t *testing.T, app *fiber.App, method, path string, headers map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, map[string]any{"success": false, "error": "Unauthorized"}, decodeMap(t, resp.Body))
}

func TestRequireSession(t *testing.T) {
	secrets := config.Secrets{AutomationSecret: automationSecret}

	t.Run("no cookie short-circuits before the store", func(t *testing.T) {
		sessions := new(MockSessionService)
		app := setupGuardApp(sessions, secrets)

		assertUnauthorized(t, app, "GET", "/api/session-only", nil)
		assertUnauthorized(t, app, "GET", "/api/session-only", map[string]string{"Cookie": "theme=dark"})
		sessions.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})

	t.Run("valid session", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Validate", mock.Anything, validToken).Return(true).Once()
		app := setupGuardApp(sessions, secrets)

		req := httptest.NewRequest("GET", "/api/session-only", nil)
		req.Header.Set("Cookie", "theme=dark; dashboard_session_token="+validToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{"kind": "session", "token": validToken}, decodeMap(t, resp.Body))
		sessions.AssertExpectations(t)
	})

	t.Run("invalid or expired session", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Validate", mock.Anything, "forged").Return(false).Once()
		app := setupGuardApp(sessions, secrets)

		assertUnauthorized(t, app, "GET", "/api/session-only", map[string]string{"Cookie": "dashboard_session_token=forged"})
		sessions.AssertExpectations(t)
	})

	t.Run("automation secret is not enough", func(t *testing.T) {
		sessions := new(MockSessionService)
		app := setupGuardApp(sessions, secrets)

		assertUnauthorized(t, app, "GET", "/api/session-only", map[string]string{"Authorization": "Bearer " + automationSecret})
	})
}

func TestRequireSessionPage(t *testing.T) {
	secrets := config.Secrets{AutomationSecret: automationSecret}

	tests := []struct {
		name     string
		target   string
		cookie   string
		valid    bool
		location string
	}{
		{name: "no cookie", target: "/reports", location: "/login?redirect=%2Freports"},
		{name: "query is kept", target: "/reports?tab=errors", location: "/login?redirect=%2Freports%3Ftab%3Derrors"},
		{name: "revoked session", target: "/reports", cookie: "dashboard_session_token=" + validToken, location: "/login?redirect=%2Freports"},
		{name: "valid session", target: "/reports", cookie: "dashboard_session_token=" + validToken, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionService)
			sessions.On("Validate", mock.Anything, validToken).Return(tt.valid).Maybe()
			app := setupGuardApp(sessions, secrets)

			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", tt.cookie)
			}
			// bearer credentials never open a page
			req.Header.Set("Authorization", "Bearer "+automationSecret)
			resp, err := app.Test(req)
			require.NoError(t, err)

			if tt.valid {
				assert.Equal(t, fiber.StatusOK, resp.StatusCode)
				assert.Equal(t, map[string]any{"kind": "session", "token": validToken}, decodeMap(t, resp.Body))
				return
			}
			assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestRequireSessionOrAutomationSecret(t *testing.T) {
	secrets := config.Secrets{AutomationSecret: automationSecret}

	t.Run("valid bearer without cookie", func(t *testing.T) {
		sessions := new(MockSessionService)
		app := setupGuardApp(sessions, secrets)

		req := httptest.NewRequest("POST", "/api/cron", nil)
		req.Header.Set("Authorization", "Bearer "+automationSecret)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{"kind": "automation", "token": ""}, decodeMap(t, resp.Body))
		sessions.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})

	t.Run("wrong bearer without cookie", func(t *testing.T) {
		sessions := new(MockSessionService)
		app := setupGuardApp(sessions, secrets)

		assertUnauthorized(t, app, "POST", "/api/cron", map[string]string{"Authorization": "Bearer nope"})
		assertUnauthorized(t, app, "POST", "/api/cron", map[string]string{"Authorization": "Bearer " + automationSecret + "x"})
		assertUnauthorized(t, app, "POST", "/api/cron", map[string]string{"Authorization": "Basic " + automationSecret})
	})

	t.Run("wrong bearer falls back to session", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Validate", mock.Anything, validToken).Return(true).Once()
		app := setupGuardApp(sessions, secrets)

		req := httptest.NewRequest("POST", "/api/cron", nil)
		req.Header.Set("Authorization", "Bearer nope")
		req.Header.Set("Cookie", "dashboard_session_token="+validToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "session", decodeMap(t, resp.Body)["kind"])
	})

	t.Run("unset secret never matches", func(t *testing.T) {
		sessions := new(MockSessionService)
		app := setupGuardApp(sessions, config.Secrets{})

		assertUnauthorized(t, app, "POST", "/api/cron", map[string]string{"Authorization": "Bearer "})
		assertUnauthorized(t, app, "POST", "/api/cron", nil)

		req := httptest.NewRequest("POST", "/api/cron", nil)
		req.Header.Set("Authorization", "Bearer anything")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, "misconfiguration is not an authentication failure")
		assert.Equal(t, false, decodeMap(t, resp.Body)["success"])
	})

	t.Run("unset secret still admits a session", func(t *testing.T) {
		sessions := new(MockSessionService)
		sessions.On("Validate", mock.Anything, validToken).Return(true).Once()
		app := setupGuardApp(sessions, config.Secrets{})

		req := httptest.NewRequest("POST", "/api/cron", nil)
		req.Header.Set("Authorization", "Bearer anything")
		req.Header.Set("Cookie", "dashboard_session_token="+validToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "session", decodeMap(t, resp.Body)["kind"])
	})
}
