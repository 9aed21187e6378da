// Package formfill wires the gateway, form source and session backend from
// configuration for the terminal and web binaries.
package formfill

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/config"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/renderers/html"
	"github.com/goliatone/go-formfill/pkg/session"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// Gateway builds the registration client and the form source selected by
// cfg.FormSource.
func Gateway(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*gateway.Client, gateway.FormSource, error) {
	client, err := gateway.NewClient(cfg.APIEndpoint,
		gateway.WithTimeout(cfg.HTTP.RequestTimeout),
		gateway.WithLogger(logger),
		gateway.WithMetrics(m),
	)
	if err != nil {
		return nil, nil, err
	}
	if path, ok := cfg.FormFile(); ok {
		return client, gateway.NewFileSource(path), nil
	}
	return client, client, nil
}

// Backend opens the session backend named by cfg.Store.Driver. The returned
// close function releases connections and is never nil.
func Backend(ctx context.Context, cfg *config.Config) (session.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		return session.NewMemoryBackend(), noop, nil
	case config.StoreFile:
		return session.NewFileBackend(cfg.Store.Dir), noop, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		backend := session.NewRedisBackend(client, session.WithTTL(cfg.Redis.SessionTTL))
		if err := backend.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("formfill: connect redis %s: %w", cfg.Redis.Addr(), err)
		}
		return backend, client.Close, nil
	default:
		return nil, noop, fmt.Errorf("formfill: unknown store driver %q", cfg.Store.Driver)
	}
}
