package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/usersapi/internal/server/store"
)

var envKeys = []string{"PORT", "ENV_NODE", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGIN"}

// clearEnv unsets every variable parseEnv reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		Address:           ":3000",
		Mode:              "development",
		LogLevel:          "info",
		LogFormat:         "json",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestLoadConfig_DefaultsDerivePathFromMode(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultPath, c.DatabasePath)

	c, err = LoadConfig([]string{"-m", "test"})
	require.NoError(t, err)
	assert.Equal(t, "test", c.Mode)
	assert.Equal(t, store.TestPath, c.DatabasePath)
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	cfgFile := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{
		"address": ":1111",
		"mode": "production",
		"log_level": "warn",
		"log_format": "text",
		"database_path": "from-json.db",
		"cors_origins": ["http://json.example"],
		"read_header_timeout": "3s",
		"shutdown_timeout": "1m"
	}`), 0o600))

	t.Setenv("PORT", "2222")
	t.Setenv("LOG_LEVEL", "error")

	c, err := LoadConfig([]string{"-c", cfgFile, "-l", "debug", "-x", "ignored"})
	require.NoError(t, err)

	want := &Config{
		Address:           ":2222",
		Mode:              "production",
		DatabasePath:      "from-json.db",
		LogLevel:          "debug",
		LogFormat:         "text",
		CORSOrigins:       []string{"http://json.example"},
		ReadHeaderTimeout: 3 * time.Second,
		ShutdownTimeout:   time.Minute,
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	_, err := LoadConfig([]string{"-c", filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"shutdown_timeout": "soon"}`), 0o600))
	_, err = LoadConfig([]string{"-c", bad})
	assert.ErrorContains(t, err, "shutdown_timeout")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	_, err = LoadConfig([]string{"-config=" + broken})
	assert.Error(t, err)
}

func TestParseJson_EmptyKeysKeepValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mode": "test"}`), 0o600))

	c := defaults()
	require.NoError(t, parseJson(c, []string{"-c", path}))

	want := defaults()
	want.Mode = "test"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseJson_NoFlagNoChange(t *testing.T) {
	c := defaults()
	require.NoError(t, parseJson(c, []string{"-a", ":1"}))
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PORT=4000\nENV_NODE=test\nDATABASE_PATH=/tmp/u.db\nLOG_FORMAT=text\nCORS_ORIGIN=http://a.example/, http://b.example ,\n",
	), 0o600))

	// process environment wins over the file
	t.Setenv("LOG_LEVEL", "warn")

	c := defaults()
	require.NoError(t, parseEnv(c, path))

	want := defaults()
	want.Address = ":4000"
	want.Mode = "test"
	want.DatabasePath = "/tmp/u.db"
	want.LogLevel = "warn"
	want.LogFormat = "text"
	want.CORSOrigins = []string{"http://a.example", "http://b.example"}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseEnv_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)

	c := defaults()
	require.NoError(t, parseEnv(c, filepath.Join(t.TempDir(), "nope.env")))
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(*Config)
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-m", "test", "-d", "x.db", "-l", "debug"},
			want: func(c *Config) {
				c.Address = "127.0.0.1:9090"
				c.Mode = "test"
				c.DatabasePath = "x.db"
				c.LogLevel = "debug"
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-z", "-a=:8080"},
			want: func(c *Config) { c.Address = ":8080" },
		},
		{
			name: "no args",
			args: nil,
			want: func(*Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			require.NoError(t, parseFlags(c, tt.args))

			want := defaults()
			tt.want(want)
			assert.Empty(t, cmp.Diff(want, c))
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
