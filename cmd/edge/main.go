package main

import (
	"log/slog"
	"os"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/edge"
)

func main() {
	config.LoadDotEnv()
	env := config.LoadEnv()

	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := edge.Start(cfg, env); err != nil {
		os.Exit(1)
	}
}
