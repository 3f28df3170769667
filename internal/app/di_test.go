package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/forum/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:          "localhost",
		ServerPort:          8080,
		DBDriver:            "postgres",
		LogLevel:            "error",
		AuthTokenSecret:     "test-secret-for-container-tests",
		AuthTokenAlgorithm:  "HS256",
		AuthTokenExpiration: time.Hour,
		MetricsEnabled:      false,
		MetricsNamespace:    "forum",
	}
}

func TestContainer_Logger(t *testing.T) {
	container := NewContainer(testConfig())

	logger := container.Logger()
	require.NotNil(t, logger)

	// Lazy init returns the same instance on every access.
	assert.Same(t, logger, container.Logger())
}

func TestContainer_Config(t *testing.T) {
	cfg := testConfig()
	container := NewContainer(cfg)

	assert.Same(t, cfg, container.Config())
}

func TestContainer_PermissionRegistry(t *testing.T) {
	container := NewContainer(testConfig())

	registry := container.PermissionRegistry()
	require.NotNil(t, registry)
	assert.Same(t, registry, container.PermissionRegistry())
}

func TestContainer_Hub(t *testing.T) {
	container := NewContainer(testConfig())

	hub := container.Hub()
	require.NotNil(t, hub)
	assert.Same(t, hub, container.Hub())
	assert.Equal(t, 0, hub.OnlineCount())
}

func TestContainer_RedisClient_NotConfigured(t *testing.T) {
	container := NewContainer(testConfig())

	client, err := container.RedisClient()
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestContainer_RedisClient_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "not-a-redis-url"
	container := NewContainer(cfg)

	client, err := container.RedisClient()
	assert.Error(t, err)
	assert.Nil(t, client)

	// The error is sticky across accesses.
	_, err = container.RedisClient()
	assert.Error(t, err)
}

func TestContainer_TokenService(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		container := NewContainer(testConfig())

		service, err := container.TokenService()
		require.NoError(t, err)
		require.NotNil(t, service)

		token, err := service.Issue(42)
		require.NoError(t, err)

		subjectID, err := service.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), subjectID)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuthTokenSecret = ""
		container := NewContainer(cfg)

		_, err := container.TokenService()
		assert.Error(t, err)
	})
}

func TestContainer_MetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig())

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	require.NotNil(t, businessMetrics)
}
