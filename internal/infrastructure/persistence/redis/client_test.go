//nolint:testpackage // White-box testing required for internal implementation
package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 5, cfg.MinIdle)
	assert.Equal(t, 3, cfg.MaxRetry)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		wantError string
	}{
		{
			name: "empty host",
			cfg: Config{
				Host: "",
				Port: 6379,
			},
			wantError: "redis host cannot be empty",
		},
		{
			name: "invalid port - zero",
			cfg: Config{
				Host: "localhost",
				Port: 0,
			},
			wantError: "invalid redis port: 0",
		},
		{
			name: "invalid port - negative",
			cfg: Config{
				Host: "localhost",
				Port: -1,
			},
			wantError: "invalid redis port: -1",
		},
		{
			name: "invalid port - too large",
			cfg: Config{
				Host: "localhost",
				Port: 65536,
			},
			wantError: "invalid redis port: 65536",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := NewClient(tt.cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
			assert.Nil(t, client)
		})
	}
}

func TestNewClient_ConnectionFailure(t *testing.T) {
	t.Parallel()

	// Use an invalid host that won't resolve
	cfg := Config{
		Host:    "invalid-redis-host-that-does-not-exist",
		Port:    6379,
		Timeout: 1 * time.Second,
	}

	client, err := NewClient(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
	assert.Nil(t, client)
}

func newMiniredisClient(t *testing.T) *Client {
	t.Helper()

	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(Config{
		Host:     mr.Host(),
		Port:     port,
		PoolSize: 5,
		MinIdle:  2,
		MaxRetry: 1,
		Timeout:  time.Second,
	})
	require.NoError(t, err)

	return client
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	client := newMiniredisClient(t)
	defer func() {
		_ = client.Close() // Cleanup best effort
	}()

	require.NoError(t, client.Ping(context.Background()))
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	client := newMiniredisClient(t)
	defer func() {
		_ = client.Close() // Cleanup best effort
	}()

	require.NoError(t, client.HealthCheck(context.Background()))
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	client := newMiniredisClient(t)

	require.NoError(t, client.Close())

	// After closing, operations should fail
	require.Error(t, client.Ping(context.Background()))
}
