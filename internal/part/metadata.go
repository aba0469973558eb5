// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines export metadata and the constraints imports place on it.
//
// Why cty values instead of plain Go maps?
//
// Metadata is declared in HCL, so it arrives as cty values. Keeping it in that
// form lets constraints compare values exactly as declared (a number stays a
// number, a string stays a string) and lets the same helpers decode it into Go
// types for constructors that need static settings.
package part

import (
	"fmt"
	"sort"
	"strings"

	mm "github.com/Masterminds/semver/v3"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Metadata is an arbitrary key/value map attached to an export, or the static
// settings of a part.
type Metadata map[string]cty.Value

// MetadataFromValue converts an object or map value into Metadata. A null
// value yields nil metadata.
func MetadataFromValue(v cty.Value) (Metadata, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	m := make(Metadata)
	for k, ev := range v.AsValueMap() {
		m[k] = ev
	}
	return m, nil
}

// NewMetadata builds Metadata from Go values using their implied cty types.
func NewMetadata(values map[string]any) (Metadata, error) {
	m := make(Metadata, len(values))
	for k, gv := range values {
		ty, err := gocty.ImpliedType(gv)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k, err)
		}
		cv, err := gocty.ToCtyValue(gv, ty)
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k, err)
		}
		m[k] = cv
	}
	return m, nil
}

// MustMetadata is like NewMetadata but panics on error.
func MustMetadata(values map[string]any) Metadata {
	m, err := NewMetadata(values)
	if err != nil {
		panic(err)
	}
	return m
}

// Decode converts the value stored under key into target, which must be a
// pointer. It reports false when the key is absent or null.
func (m Metadata) Decode(key string, target any) (bool, error) {
	v, ok := m[key]
	if !ok || v.IsNull() {
		return false, nil
	}
	ty, err := gocty.ImpliedType(target)
	if err == nil {
		if converted, cerr := convert.Convert(v, ty); cerr == nil {
			v = converted
		}
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return true, fmt.Errorf("%q: %w", key, err)
	}
	return true, nil
}

// String returns the value under key converted to a string, or fallback.
func (m Metadata) String(key, fallback string) string {
	var s string
	if ok, err := m.Decode(key, &s); !ok || err != nil {
		return fallback
	}
	return s
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Constraint is one predicate an import places on an export's metadata. The
// key must be present; Equals (when non-null) must match exactly; Semver
// (when set) must be satisfied by the value read as a semantic version.
type Constraint struct {
	Key    string
	Equals cty.Value
	Semver string
}

// Match builds an equality constraint.
func Match(key string, v cty.Value) Constraint {
	return Constraint{Key: key, Equals: v}
}

// SemverConstraint builds a version-range constraint, validating the range.
func SemverConstraint(key, expr string) (Constraint, error) {
	if _, err := mm.NewConstraint(expr); err != nil {
		return Constraint{}, fmt.Errorf("invalid semver constraint %q for %q: %w", expr, key, err)
	}
	return Constraint{Key: key, Equals: cty.NilVal, Semver: expr}, nil
}

// SatisfiedBy evaluates the constraint against export metadata.
func (c Constraint) SatisfiedBy(m Metadata) bool {
	got, ok := m[c.Key]
	if !ok || got.IsNull() || !got.IsKnown() {
		return false
	}
	if !c.Equals.IsNull() && !got.RawEquals(c.Equals) {
		return false
	}
	if c.Semver != "" {
		if !got.Type().Equals(cty.String) {
			return false
		}
		v, err := mm.NewVersion(got.AsString())
		if err != nil {
			return false
		}
		rng, err := mm.NewConstraint(c.Semver)
		if err != nil {
			return false
		}
		return rng.Check(v)
	}
	return true
}

func (c Constraint) String() string {
	var conds []string
	if !c.Equals.IsNull() {
		conds = append(conds, fmt.Sprintf("== %s", renderValue(c.Equals)))
	}
	if c.Semver != "" {
		conds = append(conds, fmt.Sprintf("semver %s", c.Semver))
	}
	if len(conds) == 0 {
		return c.Key + " present"
	}
	return c.Key + " " + strings.Join(conds, " && ")
}

func renderValue(v cty.Value) string {
	if v.Type().Equals(cty.String) && v.IsKnown() && !v.IsNull() {
		return fmt.Sprintf("%q", v.AsString())
	}
	return v.GoString()
}
