package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "car_catalog")
	t.Setenv("DB_PASSWORD", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxSize)
	assert.Equal(t, 5*time.Second, cfg.Recaptcha.Timeout)
	assert.Equal(t, 5*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, DefaultFeeds, cfg.News.Feeds)
	assert.Equal(t, 8, cfg.News.ItemsPerFeed)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=car_catalog sslmode=disable", cfg.DB.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_BUCKET", "images")
	t.Setenv("NEWS_FEEDS", "https://a.example/rss|https://b.example/rss")
	t.Setenv("RECAPTCHA_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "images", cfg.Minio.Bucket)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.News.Feeds)
	assert.Equal(t, 2*time.Second, cfg.Recaptcha.Timeout)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	})

	t.Run("missing database", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DB_HOST", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_HOST")
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("STORAGE_BACKEND", "s3")
		_, err := Load()
		assert.ErrorContains(t, err, "STORAGE_BACKEND")
	})
}
