package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"example.com/scoreboard/internal/scoreboard"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJWTSecret        = "dev-secret-change-me"
	defaultOperatorPassword = "dev-password-change-me"
)

// Config describes all runtime settings for the server.
//
// Loaded once in main, validated, then passed down explicitly.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
		Level  slog.Level
	}

	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
		AllowedOrigins    []string
	}

	Redis struct {
		Enabled      bool
		Addr         string
		DB           int
		BoardKey     string
		BoardTTL     time.Duration
		WriteTimeout time.Duration
	}

	Auth struct {
		Secret       string
		TokenTTL     time.Duration
		OperatorName string
		PasswordHash string // bcrypt
	}

	Board struct {
		Policy scoreboard.Policy
	}
}

func LoadFromEnv() (Config, error) {
	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	if err := c.Log.Level.UnmarshalText([]byte(envString("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	port := envString("PORT", "8080")
	c.HTTP.Addr = envString("HTTP_ADDR", ":"+port)
	c.HTTP.ReadHeaderTimeout = envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second)
	c.HTTP.ReadTimeout = envDuration("HTTP_READ_TIMEOUT", 0)
	c.HTTP.WriteTimeout = envDuration("HTTP_WRITE_TIMEOUT", 0)
	c.HTTP.IdleTimeout = envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	c.HTTP.ShutdownTimeout = envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	c.HTTP.AllowedOrigins = envList("CORS_ALLOWED_ORIGINS", []string{"*"})

	c.Redis.Enabled = envBool("REDIS_ENABLED", false)
	c.Redis.Addr = envString("REDIS_ADDR", "localhost:6379")
	c.Redis.DB = envInt("REDIS_DB", 0)
	c.Redis.BoardKey = envString("BOARD_KEY", "scoreboard:summary")
	c.Redis.BoardTTL = envDuration("BOARD_TTL", 24*time.Hour)
	c.Redis.WriteTimeout = envDuration("REDIS_WRITE_TIMEOUT", 2*time.Second)

	c.Auth.Secret = envString("JWT_SECRET", defaultJWTSecret)
	c.Auth.TokenTTL = envDuration("JWT_TTL", 12*time.Hour)
	c.Auth.OperatorName = envString("OPERATOR_NAME", "operator")
	c.Auth.PasswordHash = envString("OPERATOR_PASSWORD_HASH", "")

	policy, err := scoreboard.ParsePolicy(envString("TEAM_POLICY", "exclusive"))
	if err != nil {
		return Config{}, err
	}
	c.Board.Policy = policy

	// dev convenience: a well-known password when no hash is configured
	if c.Auth.PasswordHash == "" && c.Env == "dev" {
		h, err := bcrypt.GenerateFromPassword([]byte(defaultOperatorPassword), bcrypt.DefaultCost)
		if err != nil {
			return Config{}, fmt.Errorf("hash dev operator password: %w", err)
		}
		c.Auth.PasswordHash = string(h)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("HTTP addr is empty")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is empty")
	}
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "dev" && c.Auth.Secret == defaultJWTSecret {
		return fmt.Errorf("refuse to run with default JWT_SECRET in %s", c.Env)
	}
	if c.Auth.OperatorName == "" {
		return errors.New("OPERATOR_NAME is empty")
	}
	if c.Auth.PasswordHash == "" {
		return errors.New("OPERATOR_PASSWORD_HASH is empty")
	}
	if _, err := bcrypt.Cost([]byte(c.Auth.PasswordHash)); err != nil {
		return fmt.Errorf("OPERATOR_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
