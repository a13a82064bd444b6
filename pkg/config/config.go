package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/registry/pkg/observability"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Registry holds upstream-proxy and cache-backend settings.
	Registry RegistryConfig

	// Login holds the OAuth login-session settings (the Configurator
	// capability consumed by pkg/auth.Authenticator).
	Login LoginConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// RegistryConfig holds the upstream registry and cache backend settings.
type RegistryConfig struct {
	UpstreamURL string
	PublicURL   string

	CacheBackend string // "filesystem" or "s3"
	CacheRoot    string

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	L1CacheSize int

	MaxFileCount    int
	MaxUnpackedSize int64
}

// LoginConfig holds the OAuth login-session settings.
type LoginConfig struct {
	FQDN              string
	OAuthClientID     string
	OAuthClientSecret string
	CookieSecret      []byte

	OAuthAuthURL     string
	OAuthTokenURL    string
	OAuthUserInfoURL string
	OAuthScopes      []string
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool
}

// FQDN implements auth.Configurator.
func (c *Config) FQDN() string { return c.Login.FQDN }

// CookieSecret implements auth.Configurator.
func (c *Config) CookieSecret() []byte { return c.Login.CookieSecret }

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Registry:      loadRegistryConfig(),
		Login:         loadLoginConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment.
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("REGISTRY_HOST", "0.0.0.0"),
		Port:            getEnv("REGISTRY_PORT", "8080"),
		ReadTimeout:     getEnvDuration("REGISTRY_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("REGISTRY_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("REGISTRY_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("REGISTRY_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("REGISTRY_HEALTH_PORT", "9090"),
	}
}

// loadRegistryConfig loads upstream/cache configuration from environment.
func loadRegistryConfig() RegistryConfig {
	return RegistryConfig{
		UpstreamURL: getEnv("REGISTRY_UPSTREAM_URL", "https://registry.npmjs.org"),
		PublicURL:   getEnv("REGISTRY_PUBLIC_URL", ""),

		CacheBackend: getEnv("REGISTRY_CACHE_BACKEND", "filesystem"),
		CacheRoot:    getEnv("REGISTRY_CACHE_ROOT", "/var/registry/cache"),

		S3Endpoint:     getEnv("REGISTRY_S3_ENDPOINT", ""),
		S3Region:       getEnv("REGISTRY_S3_REGION", ""),
		S3Bucket:       getEnv("REGISTRY_S3_BUCKET", ""),
		S3AccessKey:    getEnv("REGISTRY_S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("REGISTRY_S3_SECRET_KEY", ""),
		S3UsePathStyle: getEnvBool("REGISTRY_S3_USE_PATH_STYLE", false),

		L1CacheSize: getEnvInt("REGISTRY_L1_CACHE_SIZE", 1024),

		MaxFileCount:    getEnvInt("REGISTRY_MAX_FILE_COUNT", 16000),
		MaxUnpackedSize: getEnvInt64("REGISTRY_MAX_UNPACKED_SIZE", 1<<30),
	}
}

// loadLoginConfig loads the OAuth login-session configuration from
// environment, defaulting the provider endpoints to GitHub's.
func loadLoginConfig() LoginConfig {
	secret := getEnv("REGI_COOKIE_SECRET", "")
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil || len(decoded) == 0 {
		decoded = []byte(secret)
	}

	scopes := getEnv("REGI_OAUTH_SCOPES", "read:user,user:email")

	return LoginConfig{
		FQDN:              getEnv("REGI_FQDN", "http://localhost:8080"),
		OAuthClientID:     getEnv("REGI_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("REGI_OAUTH_CLIENT_SECRET", ""),
		CookieSecret:      decoded,
		OAuthAuthURL:      getEnv("REGI_OAUTH_AUTH_URL", "https://github.com/login/oauth/authorize"),
		OAuthTokenURL:     getEnv("REGI_OAUTH_TOKEN_URL", "https://github.com/login/oauth/access_token"),
		OAuthUserInfoURL:  getEnv("REGI_OAUTH_USERINFO_URL", "https://api.github.com/user"),
		OAuthScopes:       strings.Split(scopes, ","),
	}
}

// loadObservabilityConfig loads observability configuration from environment.
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("REGISTRY_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("REGISTRY_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Registry.CacheBackend {
	case "filesystem":
		if c.Registry.CacheRoot == "" {
			return fmt.Errorf("cache root is required for filesystem cache backend")
		}
	case "s3":
		if c.Registry.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be filesystem or s3)", c.Registry.CacheBackend)
	}

	if c.Registry.UpstreamURL == "" {
		return fmt.Errorf("upstream registry URL is required")
	}

	return nil
}

// parseLogLevel parses a log level string.
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
