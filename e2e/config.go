package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// API_ADDR points at a running chat server, e.g. http://localhost:8080.
	// The suites skip themselves when it is unset.
	APIAddr string `envconfig:"API_ADDR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_TIMEOUT_SECONDS bounds every wait in the scenarios
	TimeoutSeconds int `envconfig:"E2E_TIMEOUT_SECONDS" default:"10"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
