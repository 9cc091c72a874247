package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Anvoria/dashboard/internal/utils"
)

//go:embed web/login.html
var loginHTML string

var loginTemplate = template.Must(template.New("login").Parse(loginHTML))

type loginView struct {
	AppName  string
	Redirect string
}

func loginPage(appName string) fiber.Handler {
	if appName == "" {
		appName = "Dashboard"
	}

	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		err := loginTemplate.Execute(&buf, loginView{
			AppName:  appName,
			Redirect: SafeRedirect(c.Query("redirect")),
		})
		if err != nil {
			slog.Error("Failed to render login page", "error", err)
			return utils.ErrInternalServer
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}

// SafeRedirect returns target when it is a path on this origin and "/"
// otherwise, so the login form can never send the user to another site.
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") ||
		strings.ContainsAny(target, "\r\n\t") {
		return "/"
	}
	return target
}
