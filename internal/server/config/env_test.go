package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("ADDRESS", ":9000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("DATABASE_SSL", "true")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("S3_BUCKET", "env-bucket")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9000", c.Address)
	assert.Equal(t, "postgres://env/db", c.DatabaseDSN)
	assert.True(t, c.DatabaseSSL)
	assert.Equal(t, "env-access", c.AccessTokenSecret)
	assert.Equal(t, "env-refresh", c.RefreshTokenSecret)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, "env-bucket", c.S3Bucket)
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	before := c
	parseEnv(&c)

	// Only fields with env vars set in this test process may differ; assume a
	// clean environment for the config-sensitive ones.
	assert.Equal(t, before.Address, c.Address)
	assert.Equal(t, before.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
}

func TestParseEnv_BadDurationIgnored(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "not-a-duration")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, 1*time.Hour, c.AccessTokenValidityDuration)
}
