// Package observability provides structured logging, Prometheus metrics,
// and health checks for the registry proxy.
//
// # Overview
//
// This package centralizes observability infrastructure: JSON logging,
// metrics collection, and health checks against the cache backend and
// upstream registry.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Info("server started")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.CacheHitsTotal.WithLabelValues("packument").Inc()
//
// # Health Checks
//
// Configure health checker against the cache backend and upstream registry:
//
//	checker := observability.NewHealthChecker(cache.StoreProber{Store: store}, upstreamClient)
//	status := checker.Check(ctx)
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/cache: supplies the StoreProber consumed by HealthChecker
//   - pkg/upstream: Client satisfies Prober directly
package observability
