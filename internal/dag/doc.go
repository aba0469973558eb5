// Package dag provides a small directed graph of string-identified nodes
// with the analyses the resolver needs: strongly connected components and
// a deterministic cycle path through each of them.
//
// Every listing this package returns is sorted, so callers get the same
// answer regardless of map iteration order.
package dag
