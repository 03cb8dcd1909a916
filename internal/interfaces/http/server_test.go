package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
)

func serverTestConfig() config.ServerConfig {
	return config.ServerConfig{Port: 0, Mode: "test"}
}

func TestServerTimeoutDefaults(t *testing.T) {
	srv := NewServer(serverTestConfig(), testRouterConfig(t), logging.NewNopLogger())
	assert.Equal(t, 15*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, srv.srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.shutdown)
}

func TestServerStartStop(t *testing.T) {
	srv := NewServer(serverTestConfig(), testRouterConfig(t), logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
