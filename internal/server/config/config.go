// Package config handles configuration for the users API server: defaults,
// a JSON file overlay, environment variables (optionally from a .env file)
// and command-line flags, applied in that order.
package config

import (
	"time"

	"github.com/dmitrijs2005/usersapi/internal/server/store"
)

// Config holds runtime settings for the users API server.
//
// DatabasePath may be left empty, in which case it is derived from Mode.
type Config struct {
	Address           string
	Mode              string
	DatabasePath      string
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Address = ":3000"
	c.Mode = "development"
	c.DatabasePath = ""
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.CORSOrigins = nil
	c.ReadHeaderTimeout = 10 * time.Second
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c,
// then the environment, then the remaining flags in args (usually
// os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = store.PathForMode(cfg.Mode)
	}
	return cfg, nil
}
