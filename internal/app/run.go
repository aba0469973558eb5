package app

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/compose"
	"github.com/vk/partgrid/internal/container"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/ctxlog"
)

// Run composes the configured modules, resolves each requested export and,
// when an introspection port is set, serves the introspection API until ctx
// is done.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "modules", cfg.Modules)

	provider, err := compose.All(ctx, a.loader, cfg.Modules, a.registry,
		compose.WithConcurrency(cfg.Workers),
		compose.WithProviderOptions(container.WithMetrics(a.metrics)),
	)
	if err != nil {
		return fmt.Errorf("failed to compose modules: %w", err)
	}
	a.setProvider(provider)
	a.logger.Info("Parts composed.", "count", len(provider.Composition().Parts()))

	for _, e := range cfg.Exports {
		c, err := contract.Parse(e)
		if err != nil {
			return fmt.Errorf("invalid export %q: %w", e, err)
		}
		v, err := provider.GetExport(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to resolve export: %w", err)
		}
		a.logger.Info("Export resolved.", "contract", c.String(), "type", fmt.Sprintf("%T", v))
	}

	if cfg.IntrospectPort > 0 {
		if err := a.serveIntrospection(ctx, cfg.IntrospectPort); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
