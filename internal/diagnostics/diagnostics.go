package diagnostics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/partgrid/internal/contract"
)

// DiscoveryKind classifies a DiscoveryError.
type DiscoveryKind int

const (
	// Unreadable means the module as a whole could not be inspected.
	Unreadable DiscoveryKind = iota + 1
	// MalformedDeclaration means one part's declaration is invalid.
	MalformedDeclaration
	// DuplicateIdentity means a part identity was declared more than once.
	DuplicateIdentity
)

func (k DiscoveryKind) String() string {
	switch k {
	case Unreadable:
		return "unreadable module"
	case MalformedDeclaration:
		return "malformed declaration"
	case DuplicateIdentity:
		return "duplicate part identity"
	}
	return fmt.Sprintf("DiscoveryKind(%d)", int(k))
}

// DiscoveryError is scoped to one module, or one part within it.
type DiscoveryError struct {
	Kind   DiscoveryKind
	Module string
	// Part is empty for module-level failures.
	Part   string
	Detail string
}

func (e *DiscoveryError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %q", e.Module)
	if e.Part != "" {
		fmt.Fprintf(&sb, ", part %q", e.Part)
	}
	fmt.Fprintf(&sb, ": %s", e.Kind)
	if e.Detail != "" {
		fmt.Fprintf(&sb, ": %s", e.Detail)
	}
	return sb.String()
}

// CompareDiscovery orders discovery errors canonically: by module, part,
// kind, then detail.
func CompareDiscovery(a, b *DiscoveryError) int {
	return cmp.Or(
		cmp.Compare(a.Module, b.Module),
		cmp.Compare(a.Part, b.Part),
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.Detail, b.Detail),
	)
}

// CompositionKind classifies a CompositionError.
type CompositionKind int

const (
	// Unresolved means an exactly-one import has no compatible export.
	Unresolved CompositionKind = iota + 1
	// Ambiguous means a single-valued import has several compatible exports.
	Ambiguous
	// CircularDependency means a cycle exists in which every edge is eager.
	CircularDependency
)

func (k CompositionKind) String() string {
	switch k {
	case Unresolved:
		return "unresolved import"
	case Ambiguous:
		return "ambiguous import"
	case CircularDependency:
		return "circular dependency"
	}
	return fmt.Sprintf("CompositionKind(%d)", int(k))
}

// CompositionError is scoped to one import or one cycle.
type CompositionError struct {
	Kind CompositionKind
	// Part and Import identify the import for Unresolved and Ambiguous.
	Part   string
	Import contract.ID
	// Candidates lists the exporting parts of every compatible export.
	Candidates []string
	// Cycle lists the parts of a circular dependency in edge order. The
	// last part depends on the first.
	Cycle []string
}

func (e *CompositionError) Error() string {
	switch e.Kind {
	case Unresolved:
		return fmt.Sprintf("part %q: %s %q: no compatible export", e.Part, e.Kind, e.Import)
	case Ambiguous:
		return fmt.Sprintf("part %q: %s %q: %d compatible exports from parts %s",
			e.Part, e.Kind, e.Import, len(e.Candidates), quoteJoin(e.Candidates))
	case CircularDependency:
		if len(e.Cycle) == 0 {
			return e.Kind.String()
		}
		path := append(slices.Clone(e.Cycle), e.Cycle[0])
		return fmt.Sprintf("%s with no lazy edge: %s", e.Kind, strings.Join(path, " -> "))
	}
	return e.Kind.String()
}

// InstantiationError reports a failed construction of one part. It is
// returned to the caller that requested the instance and has no effect on
// the provider or on other cached instances.
type InstantiationError struct {
	Part string
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating part %q: %v", e.Part, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// AggregateError carries every discovery or composition error found while
// composing. Composition either succeeds with no errors or fails with the
// complete set.
type AggregateError struct {
	Discovery   []*DiscoveryError
	Composition []*CompositionError
}

// Len returns the total number of records.
func (e *AggregateError) Len() int {
	return len(e.Discovery) + len(e.Composition)
}

func (e *AggregateError) Error() string {
	lines := make([]string, 0, e.Len())
	for _, d := range e.Discovery {
		lines = append(lines, d.Error())
	}
	for _, c := range e.Composition {
		lines = append(lines, c.Error())
	}
	stage := "composition"
	if len(e.Discovery) > 0 {
		stage = "discovery"
	}
	return fmt.Sprintf("%s failed with %d error(s):\n- %s", stage, e.Len(), strings.Join(lines, "\n- "))
}

// Unwrap exposes each record to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, e.Len())
	for _, d := range e.Discovery {
		errs = append(errs, d)
	}
	for _, c := range e.Composition {
		errs = append(errs, c)
	}
	return errs
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
