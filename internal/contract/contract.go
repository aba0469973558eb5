package contract

import (
	"fmt"
	"regexp"
	"strings"
)

// ID identifies a capability. The zero value is not a valid contract.
type ID struct {
	Type string
	Name string
}

// typeRegex restricts contract types and names to identifier-like tokens.
var typeRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_./-]*$`)

// New builds a contract ID, validating both fields.
func New(typ, name string) (ID, error) {
	if !typeRegex.MatchString(typ) {
		return ID{}, fmt.Errorf("invalid contract type %q", typ)
	}
	if name != "" && !typeRegex.MatchString(name) {
		return ID{}, fmt.Errorf("invalid contract name %q", name)
	}
	return ID{Type: typ, Name: name}, nil
}

// Parse reads the canonical `Type` or `Type#Name` form.
func Parse(s string) (ID, error) {
	typ, name, found := strings.Cut(s, "#")
	if found && name == "" {
		return ID{}, fmt.Errorf("invalid contract %q: empty name after '#'", s)
	}
	id, err := New(typ, name)
	if err != nil {
		return ID{}, fmt.Errorf("invalid contract %q: %w", s, err)
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String serializes the ID into its canonical form.
func (id ID) String() string {
	if id.Name == "" {
		return id.Type
	}
	return id.Type + "#" + id.Name
}

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool {
	return id.Type == "" && id.Name == ""
}

// Compare orders contracts by type, then name.
func (id ID) Compare(other ID) int {
	if c := strings.Compare(id.Type, other.Type); c != 0 {
		return c
	}
	return strings.Compare(id.Name, other.Name)
}
