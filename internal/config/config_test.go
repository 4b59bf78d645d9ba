package config

import (
	"log/slog"
	"testing"
	"time"

	"example.com/scoreboard/internal/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadFromEnv_DevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "9090")

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.HTTP.Addr)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, slog.LevelInfo, c.Log.Level)
	assert.Equal(t, scoreboard.ExclusiveTeams, c.Board.Policy)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, []string{"*"}, c.HTTP.AllowedOrigins)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.Auth.PasswordHash), []byte(defaultOperatorPassword)))
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("OPERATOR_PASSWORD_HASH", string(hash))
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TEAM_POLICY", "fixture")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("BOARD_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, slog.LevelDebug, c.Log.Level)
	assert.Equal(t, scoreboard.FixtureOnly, c.Board.Policy)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, c.Redis.BoardTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.HTTP.AllowedOrigins)
}

func TestLoadFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"default secret in prod": {"APP_ENV": "prod", "OPERATOR_PASSWORD_HASH": "$2a$04$abcdefghijklmnopqrstuu5Dl9bXDVGZbRXE4JmPw7cAAdE7kq5xq"},
		"no hash in prod":        {"APP_ENV": "prod", "JWT_SECRET": "x"},
		"hash is not bcrypt":     {"OPERATOR_PASSWORD_HASH": "plain"},
		"bad log format":         {"LOG_FORMAT": "xml"},
		"bad log level":          {"LOG_LEVEL": "loud"},
		"bad policy":             {"TEAM_POLICY": "lenient"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}
