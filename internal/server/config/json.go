package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/usersapi/internal/flagx"
)

// JsonConfig is the on-disk shape of the config file. Durations are strings
// such as "10s". Missing or empty keys leave the current value alone.
type JsonConfig struct {
	Address           string   `json:"address"`
	Mode              string   `json:"mode"`
	DatabasePath      string   `json:"database_path"`
	LogLevel          string   `json:"log_level"`
	LogFormat         string   `json:"log_format"`
	CORSOrigins       []string `json:"cors_origins"`
	ReadHeaderTimeout string   `json:"read_header_timeout"`
	ShutdownTimeout   string   `json:"shutdown_timeout"`
}

// parseJson overlays the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.Address, c.Address)
	setString(&config.Mode, c.Mode)
	setString(&config.DatabasePath, c.DatabasePath)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if err := setDuration(&config.ReadHeaderTimeout, c.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("read_header_timeout: %w", err)
	}
	if err := setDuration(&config.ShutdownTimeout, c.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown_timeout: %w", err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
