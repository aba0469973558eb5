/*
Package contract defines the identity of a capability that parts exchange.

A contract is a type identifier plus an optional discriminating name. Its
canonical text form is `Type` or `Type#Name`, e.g. `Logger` or
`Logger#audit`. Two contracts are compatible only when both fields are equal;
there is no subtyping or wildcard matching at this layer.
*/
package contract
