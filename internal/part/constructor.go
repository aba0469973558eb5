// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Go-side contract between the provider and the code
// that builds a part's instance.
//
// Why an explicit Lazy handle?
//
// A lazy import is what lets two parts refer to each other. Handing the
// constructor a distinct handle type, rather than a value that happens to be
// computed late, makes the deferral visible at the call site: the instance
// behind a Lazy only exists once Get is called, and that call may fail.
package part

import (
	"context"

	"github.com/vk/partgrid/internal/contract"
)

// Constructor builds the instance of a part from its resolved inputs.
type Constructor func(ctx context.Context, in Inputs) (any, error)

// Lazy is a deferred reference to another part's instance. The first
// successful Get constructs (or fetches) the instance; later calls return
// the same value.
type Lazy interface {
	Get(ctx context.Context) (any, error)
}

// Inputs gives a constructor access to its static settings and to the
// instances bound to its imports.
type Inputs interface {
	// Part is the identity of the part being constructed.
	Part() string
	// Settings are the part's declared static values.
	Settings() Metadata
	// One returns the single instance bound to an eager import. It reports
	// false when the import is absent or bound to nothing.
	One(c contract.ID) (any, bool)
	// Many returns every instance bound to an eager import, in binding order.
	Many(c contract.ID) []any
	// Lazy returns the handle bound to a lazy import.
	Lazy(c contract.ID) (Lazy, bool)
	// LazyMany returns every handle bound to a lazy import, in binding order.
	LazyMany(c contract.ID) []Lazy
}
