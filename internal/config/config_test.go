package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_URL", "JWT_SECRET", "JWT_TTL", "LOG_LEVEL", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "AUTH_REVEAL_ROLE_MISMATCH", "ALLOW_ADMIN_SELF_REGISTER", "CORS_ALLOWED_ORIGINS", "STORAGE_DRIVER", "BCRYPT_COST"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.StorageDriver)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.JWTSecretDefault)
	assert.Equal(t, 10*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.RevealRoleMismatch)
	assert.True(t, cfg.AllowAdminSelfRegister)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "root:pw@tcp(localhost:3306)/agritrade")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("AUTH_REVEAL_ROLE_MISMATCH", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/agritrade?parseTime=true", cfg.DBUrl)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.JWTSecretDefault)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.True(t, cfg.RevealRoleMismatch)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestWithParseTime(t *testing.T) {
	assert.Equal(t, "", withParseTime(""))
	assert.Equal(t, "dsn?charset=utf8&parseTime=true", withParseTime("dsn?charset=utf8"))
	assert.Equal(t, "dsn?parseTime=false", withParseTime("dsn?parseTime=false"))
}
