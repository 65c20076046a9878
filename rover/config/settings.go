package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Settings holds process configuration read from the environment
type Settings struct {
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"8080"`
	MissionsDir string `env:"MISSIONS_DIR" envDefault:"missions"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED" envDefault:"false"`
	NgrokAuthtoken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.Port < 0 || s.Port > 65535 {
		return Settings{}, fmt.Errorf("parse env: PORT out of range: %d", s.Port)
	}
	return s, nil
}

// Addr returns the host:port the HTTP server listens on
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BaseURL returns the URL local clients use to reach the HTTP server
func (s Settings) BaseURL() string {
	return "http://" + s.Addr()
}
