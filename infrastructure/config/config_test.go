package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "orgchart_data", cfg.ChartKey)
	assert.True(t, cfg.SeedOnInit)
	assert.Equal(t, int64(5_000_000), cfg.MaxUploadBytes)
	assert.True(t, strings.HasPrefix(cfg.JWTSecret, "dev-"))
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.NeedsAWS())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "DynamoDB")
	t.Setenv("TABLE_NAME", "charts")
	t.Setenv("CHART_KEY", "acme_chart")
	t.Setenv("MAX_UPLOAD_BYTES", "2MiB")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ENABLE_EVENTS", "yes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDynamoDB, cfg.StoreBackend)
	assert.Equal(t, "charts", cfg.DynamoDBTable)
	assert.Equal(t, "acme_chart", cfg.ChartKey)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.EnableEvents)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12, cfg.TokenTTLHours)
	assert.True(t, cfg.NeedsAWS())
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "STORE_BACKEND")
}
