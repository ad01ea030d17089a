// Package config resolves runtime settings: defaults, then an optional .env
// file, then environment variables, then command-line flags.
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Addr         string
	DBDriver     string
	DSN          string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	BcryptCost   int
	Debug        bool
	SeedFile     string
	CORSOrigin   string
	LogLevel     string

	// Per-client request budgets; zero disables a limit.
	HourlyLimit int
	DailyLimit  int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and an empty secret, which makes SessionSecret generate one.
func (c *Config) LoadDefaults() {
	c.Addr = ":3002"
	c.DBDriver = "sqlite"
	c.DSN = "file:notes.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.JWTSecret = ""
	c.SessionTTL = time.Hour
	c.CookieSecure = true
	c.BcryptCost = bcrypt.DefaultCost
	c.Debug = false
	c.SeedFile = ""
	c.CORSOrigin = ""
	c.LogLevel = "info"
	c.HourlyLimit = 100
	c.DailyLimit = 500
	c.TrustProxy = false
}

// Load builds a Config. A missing envFile is not an error; variables already
// present in the environment win over the file.
func Load(envFile string, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("DB_DRIVER", &c.DBDriver)
	str("DSN", &c.DSN)
	str("JWT_SECRET", &c.JWTSecret)
	str("SEED_FILE", &c.SeedFile)
	str("CORS_ORIGIN", &c.CORSOrigin)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	if v, ok := os.LookupEnv("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := os.LookupEnv("TRUST_PROXY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = b
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BCRYPT_COST", &c.BcryptCost},
		{"RATE_LIMIT_HOURLY", &c.HourlyLimit},
		{"RATE_LIMIT_DAILY", &c.DailyLimit},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(i.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.key, err)
		}
		*i.dst = n
	}
	return nil
}

func (c *Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.HourlyLimit < 0 || c.DailyLimit < 0 {
		return fmt.Errorf("rate limits must not be negative, got %d/hour and %d/day", c.HourlyLimit, c.DailyLimit)
	}
	return nil
}

// SessionSecret returns the configured signing secret, or 32 random bytes
// when none is set. A random secret invalidates all sessions on restart.
func (c *Config) SessionSecret() ([]byte, bool, error) {
	if c.JWTSecret != "" {
		return []byte(c.JWTSecret), false, nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, true, nil
}
