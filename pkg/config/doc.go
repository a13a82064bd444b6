// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	REGISTRY_HOST="0.0.0.0"
//	REGISTRY_PORT="8080"
//	REGISTRY_HEALTH_PORT="9090"
//	REGISTRY_READ_TIMEOUT="15s"
//	REGISTRY_WRITE_TIMEOUT="15s"
//
// Upstream and cache settings:
//
//	REGISTRY_UPSTREAM_URL="https://registry.npmjs.org"
//	REGISTRY_CACHE_BACKEND="filesystem"  # filesystem, s3
//	REGISTRY_CACHE_ROOT="/var/registry/cache"
//	REGISTRY_S3_BUCKET="registry-cache"
//	REGISTRY_S3_REGION="us-east-1"
//	REGISTRY_L1_CACHE_SIZE="1024"
//
// Login and session settings:
//
//	REGI_FQDN="https://registry.example.com"
//	REGI_OAUTH_CLIENT_ID="..."
//	REGI_OAUTH_CLIENT_SECRET="..."
//	REGI_COOKIE_SECRET="..."
//	REGI_OAUTH_AUTH_URL="https://github.com/login/oauth/authorize"
//	REGI_OAUTH_TOKEN_URL="https://github.com/login/oauth/access_token"
//	REGI_OAUTH_USERINFO_URL="https://api.github.com/user"
//
// Observability settings:
//
//	REGISTRY_LOG_LEVEL="info"  # debug, info, warn, error
//	REGISTRY_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Upstream: %s\n", cfg.Registry.UpstreamURL)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/cache: uses the Registry cache settings
//   - pkg/auth: uses the Login OAuth/cookie settings via the Configurator interface
//   - pkg/observability: uses the observability configuration
package config
