package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/zclconf/go-cty/cty"
)

var partIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// defects accumulates every problem found in one part declaration.
type defects []string

func (d *defects) addf(format string, args ...any) {
	*d = append(*d, fmt.Sprintf(format, args...))
}

func (d defects) Error() string {
	return strings.Join(d, "; ")
}

// decodePart translates one part block into a descriptor. All defects of the
// block are reported together.
func (d *Discoverer) decodePart(module string, ordinal int, block *partBlock) (*part.Descriptor, error) {
	var errs defects
	if !partIDRegex.MatchString(block.ID) {
		errs.addf("invalid part identity %q", block.ID)
	}

	var body partBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		errs.addf("%s", diags.Error())
		return nil, errs
	}

	desc := &part.Descriptor{
		ID:          block.ID,
		Module:      module,
		Ordinal:     ordinal,
		Constructor: body.Constructor,
	}

	var err error
	if desc.Sharing, err = part.ParseSharing(body.Sharing); err != nil {
		errs.addf("%v", err)
	}
	if desc.Creation, err = part.ParseCreationPolicy(body.Creation); err != nil {
		errs.addf("%v", err)
	}
	if desc.Settings, err = evalObject(body.Settings); err != nil {
		errs.addf("settings: %v", err)
	}

	switch {
	case desc.Creation == part.External && desc.Constructor != "":
		errs.addf("external part must not name a constructor")
	case desc.Creation == part.Constructible && desc.Constructor == "":
		errs.addf("constructible part must name a constructor")
	case desc.Creation == part.Constructible:
		if _, ok := d.registry.Constructor(desc.Constructor); !ok {
			errs.addf("constructor %q is not registered", desc.Constructor)
		}
	}

	seenExports := make(map[contract.ID]struct{})
	for _, eb := range body.Exports {
		c, err := contract.New(eb.Type, eb.Name)
		if err != nil {
			errs.addf("export: %v", err)
			continue
		}
		if _, dup := seenExports[c]; dup {
			errs.addf("duplicate export %q", c)
			continue
		}
		seenExports[c] = struct{}{}

		meta, err := evalObject(eb.Metadata)
		if err != nil {
			errs.addf("export %q metadata: %v", c, err)
			continue
		}
		desc.Exports = append(desc.Exports, part.ExportDescriptor{Contract: c, Metadata: meta, Part: desc.ID})
	}

	seenImports := make(map[contract.ID]struct{})
	for _, ib := range body.Imports {
		c, err := contract.New(ib.Type, ib.Name)
		if err != nil {
			errs.addf("import: %v", err)
			continue
		}
		if _, dup := seenImports[c]; dup {
			errs.addf("duplicate import %q", c)
			continue
		}
		seenImports[c] = struct{}{}

		imp, err := decodeImport(c, ib)
		if err != nil {
			errs.addf("import %q: %v", c, err)
			continue
		}
		imp.Part = desc.ID
		desc.Imports = append(desc.Imports, imp)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return desc, nil
}

func decodeImport(c contract.ID, ib *importBlock) (part.ImportDescriptor, error) {
	imp := part.ImportDescriptor{Contract: c, Lazy: ib.Lazy}

	var err error
	if imp.Cardinality, err = part.ParseCardinality(ib.Cardinality); err != nil {
		return imp, err
	}

	match, err := evalObject(ib.Match)
	if err != nil {
		return imp, fmt.Errorf("match: %w", err)
	}
	for _, k := range match.Keys() {
		imp.Constraints = append(imp.Constraints, part.Match(k, match[k]))
	}

	ranges, err := evalObject(ib.Semver)
	if err != nil {
		return imp, fmt.Errorf("semver: %w", err)
	}
	for _, k := range ranges.Keys() {
		v := ranges[k]
		if v.IsNull() || !v.Type().Equals(cty.String) {
			return imp, fmt.Errorf("semver %q: expected a string range", k)
		}
		sc, err := part.SemverConstraint(k, v.AsString())
		if err != nil {
			return imp, err
		}
		imp.Constraints = append(imp.Constraints, sc)
	}
	return imp, nil
}

// evalObject evaluates a static object expression. Absent attributes decode
// to a null expression and yield nil.
func evalObject(expr hcl.Expression) (part.Metadata, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return part.MetadataFromValue(v)
}
