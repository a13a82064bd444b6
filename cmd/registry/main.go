package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"

	"github.com/platinummonkey/registry/pkg/api"
	"github.com/platinummonkey/registry/pkg/auth"
	"github.com/platinummonkey/registry/pkg/cache"
	"github.com/platinummonkey/registry/pkg/config"
	"github.com/platinummonkey/registry/pkg/observability"
	"github.com/platinummonkey/registry/pkg/policy"
	"github.com/platinummonkey/registry/pkg/registrystore"
	"github.com/platinummonkey/registry/pkg/upstream"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting registry proxy")
	logger.Infof("Cache backend: %s", cfg.Registry.CacheBackend)

	cacheStore, err := newCacheStore(cfg.Registry)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize cache backend")
		log.Fatalf("Failed to initialize cache backend: %v", err)
	}
	logger.Infof("Cache backend initialized: %s", cfg.Registry.CacheBackend)

	if cfg.Registry.L1CacheSize > 0 {
		l1, err := cache.NewL1(cacheStore, cfg.Registry.L1CacheSize)
		if err != nil {
			logger.WithError(err).Error("Failed to initialize L1 cache")
			log.Fatalf("Failed to initialize L1 cache: %v", err)
		}
		cacheStore = l1
		logger.Infof("L1 in-process cache enabled: %d entries", cfg.Registry.L1CacheSize)
	}

	upstreamClient := upstream.New(cfg.Registry.UpstreamURL, nil)
	composer := registrystore.NewComposer(cacheStore, upstreamClient, cfg.Registry.UpstreamURL, cfg.Registry.PublicURL)

	users := auth.NewUserStore()
	tokens := auth.NewTokenAuthorizer()
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Login.OAuthClientID,
		ClientSecret: cfg.Login.OAuthClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.Login.OAuthAuthURL,
			TokenURL: cfg.Login.OAuthTokenURL,
		},
		Scopes: cfg.Login.OAuthScopes,
	}
	authenticator := auth.NewAuthenticator(oauthConfig, cfg.Login.OAuthUserInfoURL, users, cfg)

	p := policy.New().
		WithPackageStorage(composer).
		WithAuthenticator(authenticator).
		WithTokenAuthorizer(tokens).
		WithUserStorage(users).
		WithConfigurator(cfg)

	server := api.NewServer(p, cfg.Registry.PublicURL)

	healthChecker := observability.NewHealthChecker(cache.StoreProber{Store: cacheStore}, upstreamClient)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, healthChecker)
	if cfg.Observability.MetricsEnabled {
		metricsRegistry := prometheus.NewRegistry()
		observability.NewMetrics(metricsRegistry)
		observability.RegisterMetricsEndpoint(healthMux, metricsRegistry)
		logger.Info("Metrics endpoint enabled at /metrics")
	}

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HealthPort),
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("Starting health/metrics server on port %s", cfg.Server.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	shutdownManager := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
		logger.Info("Shutting down health server")
		return healthServer.Shutdown(ctx)
	})

	go func() {
		logger.Infof("Starting registry API server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	logger.Info("Server started successfully, waiting for shutdown signal")
	if err := shutdownManager.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}

	logger.Info("Server shutdown complete")
}

// newCacheStore builds the cache backend selected by REGISTRY_CACHE_BACKEND.
func newCacheStore(cfg config.RegistryConfig) (cache.Store, error) {
	switch cfg.CacheBackend {
	case "filesystem":
		return cache.NewFileSystemCache(cfg.CacheRoot)
	case "s3":
		return cache.NewS3Cache(context.Background(), cache.S3Config{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
