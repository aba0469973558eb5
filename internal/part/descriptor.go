// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the descriptors a discoverer produces for each part.
//
// Why keep descriptors free of behaviour?
//
// Every downstream stage (catalog merge, resolution, compilation) is a pure
// function of these values. Keeping them as inert data means the whole
// pipeline can be exercised in tests by building descriptors by hand, without
// any declaration files or registered Go code.
package part

import (
	"fmt"

	"github.com/vk/partgrid/internal/contract"
)

// Cardinality describes how many exports an import may or must bind to.
type Cardinality int

const (
	ExactlyOne Cardinality = iota
	ZeroOrOne
	ZeroOrMore
)

var cardinalityNames = map[Cardinality]string{
	ExactlyOne: "exactly_one",
	ZeroOrOne:  "zero_or_one",
	ZeroOrMore: "zero_or_more",
}

func (c Cardinality) String() string {
	if s, ok := cardinalityNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}

// ParseCardinality reads the declaration form. An empty string means ExactlyOne.
func ParseCardinality(s string) (Cardinality, error) {
	if s == "" {
		return ExactlyOne, nil
	}
	for c, name := range cardinalityNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown cardinality %q: must be one of 'exactly_one', 'zero_or_one', 'zero_or_more'", s)
}

// Sharing is the boundary at which an instance is reused.
type Sharing int

const (
	// Shared parts are constructed at most once per provider.
	Shared Sharing = iota
	// NonShared parts are constructed on every request.
	NonShared
)

func (s Sharing) String() string {
	switch s {
	case Shared:
		return "shared"
	case NonShared:
		return "non_shared"
	}
	return fmt.Sprintf("Sharing(%d)", int(s))
}

// ParseSharing reads the declaration form. An empty string means Shared.
func ParseSharing(s string) (Sharing, error) {
	switch s {
	case "", "shared":
		return Shared, nil
	case "non_shared":
		return NonShared, nil
	}
	return 0, fmt.Errorf("unknown sharing %q: must be 'shared' or 'non_shared'", s)
}

// CreationPolicy says whether the provider may construct a part.
type CreationPolicy int

const (
	Constructible CreationPolicy = iota
	// External parts only declare exports; their instances are supplied
	// to the provider from outside.
	External
)

func (p CreationPolicy) String() string {
	switch p {
	case Constructible:
		return "constructible"
	case External:
		return "external"
	}
	return fmt.Sprintf("CreationPolicy(%d)", int(p))
}

// ParseCreationPolicy reads the declaration form. An empty string means Constructible.
func ParseCreationPolicy(s string) (CreationPolicy, error) {
	switch s {
	case "", "constructible":
		return Constructible, nil
	case "external":
		return External, nil
	}
	return 0, fmt.Errorf("unknown creation policy %q: must be 'constructible' or 'external'", s)
}

// ExportDescriptor is one capability a part offers.
type ExportDescriptor struct {
	Contract contract.ID
	Metadata Metadata
	// Part is the identity of the owning part.
	Part string
}

// ImportDescriptor is one capability a part requires.
type ImportDescriptor struct {
	Contract    contract.ID
	Cardinality Cardinality
	Constraints []Constraint
	Lazy        bool
	// Part is the identity of the owning part.
	Part string
}

// Accepts reports whether the export is compatible with the import: same
// contract and every constraint satisfied by the export's metadata.
func (i *ImportDescriptor) Accepts(e *ExportDescriptor) bool {
	if i.Contract != e.Contract {
		return false
	}
	for _, c := range i.Constraints {
		if !c.SatisfiedBy(e.Metadata) {
			return false
		}
	}
	return true
}

// Descriptor is everything the pipeline knows about one part.
type Descriptor struct {
	// ID is unique within a catalog.
	ID string
	// Module is the logical name of the module that declared the part.
	Module string
	// Ordinal is the declaration position within the module. Together with
	// Module it defines the canonical order of parts.
	Ordinal int

	Exports  []ExportDescriptor
	Imports  []ImportDescriptor
	Sharing  Sharing
	Creation CreationPolicy

	// Constructor names a function in the constructor registry. Empty for
	// external parts.
	Constructor string
	// Settings are static values handed to the constructor.
	Settings Metadata
}

// Before reports whether d precedes other in canonical order.
func (d *Descriptor) Before(other *Descriptor) bool {
	if d.Module != other.Module {
		return d.Module < other.Module
	}
	if d.Ordinal != other.Ordinal {
		return d.Ordinal < other.Ordinal
	}
	return d.ID < other.ID
}

// Import returns the import declared for the contract, if any.
func (d *Descriptor) Import(c contract.ID) (*ImportDescriptor, bool) {
	for i := range d.Imports {
		if d.Imports[i].Contract == c {
			return &d.Imports[i], true
		}
	}
	return nil, false
}
