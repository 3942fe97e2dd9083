package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("api")
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.RunMode)
	assert.Equal(t, "sales", cfg.MongoDbName)
	assert.Equal(t, 24*time.Hour, cfg.JwtTTL)
	assert.Equal(t, "cloudinary", cfg.ImageHost)
	assert.Equal(t, "Mersin", cfg.RegionName)
	assert.Equal(t, 6, cfg.MinPasswordLen)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load("api")
	assert.ErrorContains(t, err, "MONGO_URI")
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DAILY_USER_AD_LIMIT", "many")

	_, err := Load("api")
	assert.ErrorContains(t, err, "invalid DAILY_USER_AD_LIMIT")
}

func TestLoad_InvalidImageHost(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IMAGE_HOST", "ftp")

	_, err := Load("api")
	assert.ErrorContains(t, err, "IMAGE_HOST")
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load("api")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
