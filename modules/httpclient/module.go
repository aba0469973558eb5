// Package httpclient provides a shareable *http.Client part and a Requester
// part that issues single requests through it.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/modules/envvars"
)

var (
	// Contract is exported by client parts as a *http.Client.
	Contract = contract.MustParse("HTTPClient")
	// RequesterContract is exported by requester parts as a *Requester.
	RequesterContract = contract.MustParse("HTTPRequester")
)

// TimeoutVariable overrides the client timeout when an Environment is bound.
const TimeoutVariable = "HTTP_TIMEOUT"

// Module implements the registry.Module interface for this package.
type Module struct{}

// NewHTTPClient builds a client from the part settings:
//
//	timeout                 = duration string (default "30s")
//	max_idle_conns          = number (default 100)
//	max_idle_conns_per_host = number (default 10)
//
// An optional Environment import may override the timeout through
// HTTP_TIMEOUT.
func NewHTTPClient(ctx context.Context, in part.Inputs) (any, error) {
	settings := in.Settings()
	timeout := settings.String("timeout", "30s")
	if v, ok := in.One(envvars.Contract); ok {
		if env, ok := v.(*envvars.Environment); ok {
			timeout = env.Get(TimeoutVariable, timeout)
		}
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	maxIdle, perHost := 100, 10
	if _, err := settings.Decode("max_idle_conns", &maxIdle); err != nil {
		return nil, err
	}
	if _, err := settings.Decode("max_idle_conns_per_host", &perHost); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Creating HTTP client.", "part", in.Part(), "timeout", d)
	return &http.Client{
		Timeout: d,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdle,
			MaxIdleConnsPerHost: perHost,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// Register registers the constructors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConstructor("NewHTTPClient", NewHTTPClient)
	r.RegisterConstructor("NewHTTPRequester", NewHTTPRequester)
}
