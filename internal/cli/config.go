package cli

import (
	"fmt"

	"github.com/Anvoria/dashboard/internal/config"
)

// LoadConfig reads .env, the environment and the YAML config the same way the server does.
func LoadConfig() (*config.Config, *config.Environment, error) {
	config.LoadDotEnv()
	envConfig := config.LoadEnv()

	cfg, err := config.Load(envConfig.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, envConfig, nil
}
