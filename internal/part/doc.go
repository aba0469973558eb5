// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package part defines the format-agnostic data model shared by every stage of
the composition pipeline: part, export and import descriptors, metadata
constraints, and the Go-side constructor contract.

Descriptors are plain values. Once a discoverer hands them over they are
treated as read-only by the catalog, the resolver and the compiler.
*/
package part
