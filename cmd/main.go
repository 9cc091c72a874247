package main

import (
	"log/slog"
	"os"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/server"
)

func main() {
	config.LoadDotEnv()
	envConfig := config.LoadEnv()

	cfg, err := config.Load(envConfig.ConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(envConfig); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if !envConfig.Secrets.PasswordConfigured() {
		slog.Warn("DASHBOARD_PASSWORD is not set, every login will fail")
	}
	if envConfig.Secrets.AutomationSecret == "" {
		slog.Warn("AUTOMATION_SECRET is not set, scheduled jobs cannot authenticate")
	}
	if cfg.Server.ProxyHeader == "" {
		slog.Warn("server.proxy_header is not set, behind the edge every client shares one login throttle key")
	}

	if err := server.Start(cfg, envConfig); err != nil {
		os.Exit(1)
	}
}
