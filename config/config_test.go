package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "DATABASE_URL", "STATIC_URL", "PUBLIC_BASE_URL", "IMAGE_FETCH_TIMEOUT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/static", cfg.StaticURL)
	assert.Equal(t, 15*time.Second, cfg.ImageFetchTimeout)
	assert.Equal(t, "/static/images", cfg.ImagesURL())
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("STATIC_URL", "assets/")
	t.Setenv("PUBLIC_BASE_URL", "https://cars.example.com/")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "/assets", cfg.StaticURL)
	assert.Equal(t, "https://cars.example.com/assets/images", cfg.ImagesURL())
	assert.Equal(t, 3*time.Second, cfg.ImageFetchTimeout)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}
