// Package discovery turns one loaded module into part descriptors.
//
// Declarations are HCL `part` blocks:
//
//	part "console_logger" {
//	  sharing     = "shared"
//	  constructor = "NewConsoleLogger"
//
//	  export "Logger" {
//	    metadata = { level = "info", version = "1.4.0" }
//	  }
//
//	  import "Clock" {
//	    cardinality = "zero_or_one"
//	    lazy        = true
//	    match       = { zone = "utc" }
//	    semver      = { version = "^1.0" }
//	  }
//	}
//
// A module whose files cannot be parsed yields no parts and a single
// Unreadable error. A part with an invalid declaration yields one
// MalformedDeclaration error and is skipped; the rest of the module is still
// discovered. Discovery of one module never touches another, which lets
// DiscoverAll run one task per module.
package discovery
