package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/partgrid/internal/container"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/loader"
	"github.com/vk/partgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   loader.Loader
	metrics  *prometheus.Registry

	mu       sync.RWMutex
	provider *container.Provider
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own isolated logger, registry and metrics
// registry. A nil loader resolves module names under cfg.ModulesPath.
func NewApp(outW io.Writer, cfg *Config, ld loader.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if ld == nil {
		ld = loader.NewFS(cfg.ModulesPath)
		ctxlog.FromContext(ctx).Debug("Using filesystem loader.", "root", cfg.ModulesPath)
	}

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "constructors", len(reg.Names()))

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(collectors.NewGoCollector())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   ld,
		metrics:  metrics,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Provider returns the provider built by the last successful Run, or nil.
func (a *App) Provider() *container.Provider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.provider
}

func (a *App) setProvider(p *container.Provider) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider = p
}
