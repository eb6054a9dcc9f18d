package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/pschema/internal/backend"
	"github.com/specialistvlad/pschema/internal/ctxlog"
	"github.com/specialistvlad/pschema/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	backends   *backend.Registry
	prom       *prometheus.Registry
	metrics    *metrics.Collector
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, backend registry and metrics registry.
// When no modules are given the core backends are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...backend.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules(cfg)
	}
	backends, err := backend.NewRegistry(modules...)
	if err != nil {
		return nil, fmt.Errorf("failed to register backends: %w", err)
	}
	logger.Debug("All backends registered.", "schemes", backends.Schemes())

	prom := prometheus.NewRegistry()
	prom.MustRegister(collectors.NewGoCollector())

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		backends: backends,
		prom:     prom,
		metrics:  metrics.NewCollector(prom),
	}, nil
}

// Backends returns the application's backend registry. This is primarily
// for testing.
func (app *App) Backends() *backend.Registry {
	return app.backends
}

// Metrics returns the registry the application's collectors live in.
func (app *App) Metrics() *prometheus.Registry {
	return app.prom
}
