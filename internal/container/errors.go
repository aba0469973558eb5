package container

import "errors"

var (
	// ErrExportNotFound is returned when no part exports the requested contract.
	ErrExportNotFound = errors.New("no part exports the contract")
	// ErrAmbiguousExport is returned by GetExport when several parts export
	// the requested contract.
	ErrAmbiguousExport = errors.New("more than one part exports the contract")
	// ErrNotConstructible is returned for external parts with no supplied
	// instance and for parts whose constructor is not registered.
	ErrNotConstructible = errors.New("part cannot be constructed")
	// ErrConstructionCycle is returned when a construction would wait on
	// itself.
	ErrConstructionCycle = errors.New("construction cycle")
)
