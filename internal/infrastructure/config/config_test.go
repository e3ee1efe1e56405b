package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/media-storage-adapter/internal/domain"
	"github.com/marcos-nsantos/media-storage-adapter/internal/infrastructure/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_BUCKET", "b")
	t.Setenv("STORAGE_ENDPOINT", "https://account.r2.cloudflarestorage.com")
	t.Setenv("STORAGE_ACCESS_KEY_ID", "key")
	t.Setenv("STORAGE_SECRET_ACCESS_KEY", "secret")
	t.Setenv("STORAGE_PUBLIC_DOMAIN", "https://cdn.example.com")
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, config.DriverS3, cfg.Storage.Driver)
		assert.Equal(t, "auto", cfg.Storage.Region)
		assert.Equal(t, 1280, cfg.Image.MaxWidth)
		assert.Equal(t, 80, cfg.Image.Quality)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.False(t, cfg.RateLimit.Enabled)
	})

	t.Run("rejects missing storage fields", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "secret")
		t.Setenv("STORAGE_BUCKET", "b")
		t.Setenv("STORAGE_ENDPOINT", "")
		t.Setenv("STORAGE_ACCESS_KEY_ID", "")
		t.Setenv("STORAGE_SECRET_ACCESS_KEY", "secret")
		t.Setenv("STORAGE_PUBLIC_DOMAIN", "")

		cfg, err := config.Load()

		assert.Nil(t, cfg)
		require.ErrorIs(t, err, domain.ErrConfiguration)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.ElementsMatch(t, []string{"STORAGE_ENDPOINT", "STORAGE_ACCESS_KEY_ID", "STORAGE_PUBLIC_DOMAIN"}, cfgErr.Missing)
	})

	t.Run("rejects out of range image settings", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("IMAGE_QUALITY", "0")
		t.Setenv("IMAGE_MAX_WIDTH", "-1")

		_, err := config.Load()

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.ElementsMatch(t, []string{"IMAGE_QUALITY", "IMAGE_MAX_WIDTH"}, cfgErr.Invalid)
	})
}

func TestStorageConfig_Validate(t *testing.T) {
	t.Run("accepts complete config", func(t *testing.T) {
		cfg := config.StorageConfig{
			Driver:          config.DriverMinio,
			Endpoint:        "localhost:9000",
			Bucket:          "b",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
			PublicDomain:    "https://cdn.example.com",
		}

		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := config.StorageConfig{
			Driver:          "ftp",
			Endpoint:        "localhost:9000",
			Bucket:          "b",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
			PublicDomain:    "https://cdn.example.com",
		}

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(cfg.Validate(), &cfgErr))
		assert.Equal(t, []string{"STORAGE_DRIVER"}, cfgErr.Invalid)
		assert.Empty(t, cfgErr.Missing)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		cfg := config.StorageConfig{Driver: config.DriverS3}

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(cfg.Validate(), &cfgErr))
		assert.Len(t, cfgErr.Missing, 5)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := config.RedisConfig{Host: "redis", Port: 6380}
	assert.Equal(t, "redis:6380", cfg.Addr())
}
