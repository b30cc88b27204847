package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// parseEnv reads the environment after loading files (".env" when none are
// given). Variables already set in the process win over file entries; a
// missing file is not an error.
//
//	PORT          listen port, becomes ":<PORT>"
//	ENV_NODE      run mode (development, production, test)
//	DATABASE_PATH database file
//	LOG_LEVEL     debug, info, warn, error
//	LOG_FORMAT    json or text
//	CORS_ORIGIN   comma-separated allowed origins
func parseEnv(config *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.Address = ":" + v
	}
	if v, ok := os.LookupEnv("ENV_NODE"); ok && v != "" {
		config.Mode = v
	}
	if v, ok := os.LookupEnv("DATABASE_PATH"); ok && v != "" {
		config.DatabasePath = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		config.LogFormat = v
	}
	if v, ok := os.LookupEnv("CORS_ORIGIN"); ok && v != "" {
		config.CORSOrigins = splitOrigins(v)
	}
	return nil
}

func splitOrigins(v string) []string {
	var origins []string
	for _, p := range strings.Split(v, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
