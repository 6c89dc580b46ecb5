package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL         = "http://localhost:8080"
	DefaultServerPort         = 3000
	DefaultSessionIdleTimeout = 2 * time.Hour
	DefaultMaxSessions        = 10000
)

// Config holds everything the UI server reads from its environment.
type Config struct {
	APIBaseURL         string
	ServerPort         int
	SessionSecret      []byte
	SessionIdleTimeout time.Duration
	MaxSessions        int
	AllowedOrigins     []string
	LogLevel           slog.Level
	SecureCookies      bool

	// SessionSecretGenerated is set when SESSION_SECRET was empty and a random
	// per-process secret is used instead.
	SessionSecretGenerated bool
}

// Load reads the configuration from the environment, optionally loading a .env
// file first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiURL := strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if apiURL == "" {
		apiURL = DefaultAPIBaseURL
	}
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", apiURL)
	}

	port := DefaultServerPort
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		APIBaseURL:         strings.TrimRight(apiURL, "/"),
		ServerPort:         port,
		SessionIdleTimeout: DefaultSessionIdleTimeout,
		MaxSessions:        DefaultMaxSessions,
		AllowedOrigins:     []string{"*"},
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = []byte(hex.EncodeToString(buf))
		cfg.SessionSecretGenerated = true
	}

	if raw := os.Getenv("SESSION_IDLE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT environment variable: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", d)
		}
		cfg.SessionIdleTimeout = d
	}

	if raw := os.Getenv("MAX_SESSIONS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SESSIONS environment variable: %w", err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("MAX_SESSIONS must be positive, got %d", n)
		}
		cfg.MaxSessions = n
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	if raw := os.Getenv("SECURE_COOKIES"); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SECURE_COOKIES environment variable: %w", err)
		}
		cfg.SecureCookies = secure
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// AllowsAnyOrigin reports whether the CORS list is the wildcard.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
