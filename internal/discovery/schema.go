package discovery

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level schema of a declaration file.
type fileRoot struct {
	Parts []*partBlock `hcl:"part,block"`
}

// partBlock defers decoding of the body so that one malformed part cannot
// make the whole file unreadable.
type partBlock struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

type partBody struct {
	Sharing     string         `hcl:"sharing,optional"`
	Creation    string         `hcl:"creation,optional"`
	Constructor string         `hcl:"constructor,optional"`
	Settings    hcl.Expression `hcl:"settings,optional"`
	Exports     []*exportBlock `hcl:"export,block"`
	Imports     []*importBlock `hcl:"import,block"`
}

type exportBlock struct {
	Type     string         `hcl:"type,label"`
	Name     string         `hcl:"name,optional"`
	Metadata hcl.Expression `hcl:"metadata,optional"`
}

type importBlock struct {
	Type        string         `hcl:"type,label"`
	Name        string         `hcl:"name,optional"`
	Cardinality string         `hcl:"cardinality,optional"`
	Lazy        bool           `hcl:"lazy,optional"`
	Match       hcl.Expression `hcl:"match,optional"`
	Semver      hcl.Expression `hcl:"semver,optional"`
}
