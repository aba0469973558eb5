// Package console provides a Logger part that writes to the process output.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
)

// Contract is the contract console parts are expected to export.
var Contract = contract.MustParse("Logger")

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives console output. Nil means os.Stdout.
	Out io.Writer
}

// Console is a structured logger that can also print key/value sets.
type Console struct {
	*slog.Logger

	mu     sync.Mutex
	out    io.Writer
	prefix string
}

// Print writes values one per line, sorted by key.
func (c *Console) Print(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if values == nil {
		fmt.Fprintf(c.out, "%s(null)\n", c.prefix)
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.out, "%s%s = %q\n", c.prefix, k, values[k])
	}
}

// NewConsoleLogger builds a Console from the part settings:
//
//	level  = "debug" | "info" | "warn" | "error"   (default "info")
//	format = "text" | "json"                      (default "text")
//	prefix = string printed before each Print line (default "")
func (m *Module) NewConsoleLogger(_ context.Context, in part.Inputs) (any, error) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	settings := in.Settings()

	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.String("level", "info"))); err != nil {
		return nil, fmt.Errorf("invalid level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format := settings.String("format", "text"); format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}

	return &Console{
		Logger: slog.New(handler).With("part", in.Part()),
		out:    out,
		prefix: settings.String("prefix", ""),
	}, nil
}

// Register registers the constructor with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConstructor("NewConsoleLogger", m.NewConsoleLogger)
}
