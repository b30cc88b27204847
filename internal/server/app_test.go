package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.Address = "127.0.0.1:0"
	c.DatabasePath = filepath.Join(t.TempDir(), "users.db")
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_RequiresDatabasePath(t *testing.T) {
	c := testConfig(t)
	c.DatabasePath = ""

	_, err := NewApp(c)
	assert.Error(t, err)
}

func TestRun_SeedsAndStopsOnCancel(t *testing.T) {
	app, err := newApp(testConfig(t), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, err := app.userService.Count(context.Background())
		return err == nil && n > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_BadAddressFails(t *testing.T) {
	c := testConfig(t)
	c.Address = "256.0.0.1:-1"
	app, err := newApp(c, logging.Nop{})
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.ErrorContains(t, err, "http server")
}
