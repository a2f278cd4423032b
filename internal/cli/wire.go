package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitriy-luch/zoho-subscription-api/cache"
	"github.com/dmitriy-luch/zoho-subscription-api/internal/telemetry"
	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

// app is what the commands run against. It is filled in by the root
// command's pre-run hook, after flags have been parsed.
type app struct {
	config   *Config
	client   *sdk.Client
	backend  *cache.NamespacedCache
	registry *prometheus.Registry
	logger   *logrus.Logger
	span     trace.Span
	opened   bool
}

func (a *app) open(cfg *Config, stderr io.Writer) error {
	telemetryCfg := telemetry.NewConfigFromEnv()
	telemetryCfg.ServiceVersion = Version
	telemetryCfg.LogLevel = cfg.LogLevel
	a.logger = telemetry.InitLogger(telemetryCfg, stderr)

	if err := telemetry.InitTracing(telemetryCfg); err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	a.opened = true

	a.config = cfg
	a.registry = prometheus.NewRegistry()

	sdkCfg := sdk.DefaultConfig(cfg.AuthToken, cfg.OrganizationID).
		WithBaseURL(cfg.BaseURL).
		WithCacheTTL(cfg.CacheTTL).
		WithObserver(telemetry.NewPrometheusObserver(a.registry)).
		WithLogger(a.logger)

	backend, err := openCache(cfg)
	if err != nil {
		return err
	}
	if backend != nil {
		a.backend = cache.NewNamespacedCache(backend, cfg.OrganizationID)
		sdkCfg.WithCache(a.backend)
	}

	client, err := sdk.NewClient(sdkCfg)
	if err != nil {
		a.closeCache()
		return err
	}
	a.client = client

	a.logger.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"cache":    cfg.Cache,
	}).Debug("Client ready")
	return nil
}

// startCommand opens the span covering one command invocation.
func (a *app) startCommand(ctx context.Context, name string) context.Context {
	ctx, a.span = telemetry.StartSpan(ctx, name)
	return ctx
}

func openCache(cfg *Config) (cache.Cache, error) {
	switch cfg.Cache {
	case CacheMemory:
		cacheCfg := cache.DefaultConfig()
		cacheCfg.DefaultTTL = cfg.CacheTTL
		return cache.NewMemoryCache(cacheCfg), nil
	case CacheRedis:
		cacheCfg, err := cache.NewConfigFromEnv()
		if err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		cacheCfg.DefaultTTL = cfg.CacheTTL
		backend, err := cache.NewRedisCache(cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return backend, nil
	}
	return nil, nil
}

func (a *app) closeCache() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

// close releases everything open opened and, with --metrics, writes the
// collected metrics to w in the Prometheus text format. It is a no-op on an
// app that is not open.
func (a *app) close(ctx context.Context, w io.Writer) error {
	if !a.opened {
		return nil
	}
	a.opened = false

	var errs []error
	if a.span != nil {
		telemetry.WithContext(trace.ContextWithSpan(ctx, a.span)).Debug("Command finished")
		a.span.End()
		a.span = nil
	}
	if a.config != nil && a.config.Metrics {
		errs = append(errs, a.writeMetrics(w))
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	errs = append(errs, a.closeCache(), telemetry.CloseTracing(ctx))
	return errors.Join(errs...)
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
