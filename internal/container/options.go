package container

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for construction events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithInstance supplies the instance of an external part.
func WithInstance(partID string, value any) Option {
	return func(p *Provider) { p.instances[partID] = value }
}

// WithMetrics registers construction metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *Provider) { p.registerer = reg }
}
