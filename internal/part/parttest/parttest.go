// Package parttest provides helpers for calling constructors without a
// provider.
package parttest

import (
	"context"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
)

// Inputs is a hand-filled part.Inputs for calling constructors directly.
type Inputs struct {
	ID     string
	Set    part.Metadata
	Eager  map[contract.ID][]any
	Lazies map[contract.ID][]part.Lazy
}

var _ part.Inputs = (*Inputs)(nil)

func (in *Inputs) Part() string            { return in.ID }
func (in *Inputs) Settings() part.Metadata { return in.Set }

func (in *Inputs) One(c contract.ID) (any, bool) {
	if v := in.Eager[c]; len(v) > 0 {
		return v[0], true
	}
	return nil, false
}

func (in *Inputs) Many(c contract.ID) []any { return in.Eager[c] }

func (in *Inputs) Lazy(c contract.ID) (part.Lazy, bool) {
	if v := in.Lazies[c]; len(v) > 0 {
		return v[0], true
	}
	return nil, false
}

func (in *Inputs) LazyMany(c contract.ID) []part.Lazy { return in.Lazies[c] }

// Value is a part.Lazy that always returns V.
type Value struct{ V any }

func (v Value) Get(context.Context) (any, error) { return v.V, nil }
